package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"github.com/taka-shaka/matching-site-sub001/internal/notification"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FailedNotificationRepository は送信できなかった通知を MongoDB に保持し、管理画面からの再送に備える。
type FailedNotificationRepository struct {
	collection *mongo.Collection
}

// NewFailedNotificationRepository は指定コレクションを束縛したリポジトリを構築する。
func NewFailedNotificationRepository(db *mongo.Database, collectionName string) *FailedNotificationRepository {
	return &FailedNotificationRepository{collection: db.Collection(collectionName)}
}

// EnsureIndexes は status + createdAt の一覧用インデックスを作成する。
func (r *FailedNotificationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

// RecordFailure は失敗した通知を pending として保存する。同じ ID は上書きする。
func (r *FailedNotificationRepository) RecordFailure(ctx context.Context, failure notification.FailedNotification) error {
	doc := toDocument(failure)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	return err
}

// ListFailures は createdAt の降順で返す。status が空なら全件。
func (r *FailedNotificationRepository) ListFailures(ctx context.Context, status string, limit int) ([]notification.FailedNotification, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, domain.Upstream("通知履歴の取得に失敗しました", err)
	}
	defer cursor.Close(ctx)

	var docs []failedNotificationDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, domain.Upstream("通知履歴の取得に失敗しました", err)
	}
	out := make([]notification.FailedNotification, 0, len(docs))
	for _, doc := range docs {
		out = append(out, fromDocument(doc))
	}
	return out, nil
}

func (r *FailedNotificationRepository) FindFailure(ctx context.Context, id string) (*notification.FailedNotification, error) {
	var doc failedNotificationDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NotFound("通知が見つかりません")
		}
		return nil, domain.Upstream("通知履歴の取得に失敗しました", err)
	}
	failure := fromDocument(doc)
	return &failure, nil
}

// MarkAttempt は再送結果を反映する。成功時は status を sent にする。
func (r *FailedNotificationRepository) MarkAttempt(ctx context.Context, id string, sendErr error, at time.Time) error {
	set := bson.M{"lastTriedAt": at}
	if sendErr != nil {
		set["error"] = sendErr.Error()
	} else {
		set["status"] = notification.StatusSent
		set["error"] = ""
	}
	res, err := r.collection.UpdateByID(ctx, id, bson.M{
		"$set": set,
		"$inc": bson.M{"attempts": 1},
	})
	if err != nil {
		return domain.Upstream("通知履歴の更新に失敗しました", err)
	}
	if res.MatchedCount == 0 {
		return domain.NotFound("通知が見つかりません")
	}
	return nil
}

func toDocument(f notification.FailedNotification) failedNotificationDocument {
	status := f.Status
	if status == "" {
		status = notification.StatusPending
	}
	return failedNotificationDocument{
		ID:        f.ID,
		Target:    f.Kind,
		Reference: f.Reference,
		Payload: payload{
			To:      f.Recipient,
			ReplyTo: f.ReplyTo,
			Subject: f.Subject,
			Body:    f.Body,
		},
		Error:       f.Error,
		Attempts:    f.Attempts,
		Status:      status,
		CreatedAt:   f.CreatedAt,
		LastTriedAt: f.LastTriedAt,
	}
}

func fromDocument(doc failedNotificationDocument) notification.FailedNotification {
	return notification.FailedNotification{
		ID:          doc.ID,
		Kind:        doc.Target,
		Reference:   doc.Reference,
		Recipient:   doc.Payload.To,
		ReplyTo:     doc.Payload.ReplyTo,
		Subject:     doc.Payload.Subject,
		Body:        doc.Payload.Body,
		Error:       doc.Error,
		Attempts:    doc.Attempts,
		Status:      doc.Status,
		CreatedAt:   doc.CreatedAt,
		LastTriedAt: doc.LastTriedAt,
	}
}

var _ notification.FailureLog = (*FailedNotificationRepository)(nil)
