package mongo

import "time"

// failedNotificationDocument は failed_notifications コレクションの 1 件。
// _id には通知 ID (UUID) をそのまま使い、再送時の突き合わせに利用する。
type failedNotificationDocument struct {
	ID          string    `bson:"_id"`
	Target      string    `bson:"target"`
	Reference   string    `bson:"reference"`
	Payload     payload   `bson:"payload"`
	Error       string    `bson:"error"`
	Attempts    int       `bson:"attempts"`
	Status      string    `bson:"status"`
	CreatedAt   time.Time `bson:"createdAt"`
	LastTriedAt time.Time `bson:"lastTriedAt"`
}

type payload struct {
	To      string `bson:"to"`
	ReplyTo string `bson:"replyTo,omitempty"`
	Subject string `bson:"subject"`
	Body    string `bson:"body"`
}
