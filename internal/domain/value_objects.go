package domain

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// Prefectures lists the 47 Japanese prefectures in JIS order.
var Prefectures = []string{
	"北海道", "青森県", "岩手県", "宮城県", "秋田県", "山形県", "福島県",
	"茨城県", "栃木県", "群馬県", "埼玉県", "千葉県", "東京都", "神奈川県",
	"新潟県", "富山県", "石川県", "福井県", "山梨県", "長野県", "岐阜県",
	"静岡県", "愛知県", "三重県", "滋賀県", "京都府", "大阪府", "兵庫県",
	"奈良県", "和歌山県", "鳥取県", "島根県", "岡山県", "広島県", "山口県",
	"徳島県", "香川県", "愛媛県", "高知県", "福岡県", "佐賀県", "長崎県",
	"熊本県", "大分県", "宮崎県", "鹿児島県", "沖縄県",
}

var prefectureSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Prefectures))
	for _, p := range Prefectures {
		set[p] = struct{}{}
	}
	return set
}()

type Prefecture string

// NewPrefecture accepts an empty value (unset) or one of the 47 prefectures.
func NewPrefecture(value string) (Prefecture, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	if _, ok := prefectureSet[trimmed]; !ok {
		return "", Validation(fmt.Sprintf("都道府県が不正です: %s", trimmed))
	}
	return Prefecture(trimmed), nil
}

func (p Prefecture) String() string {
	return string(p)
}

// NormalizeEmail trims and validates an address. Empty input is an error.
func NormalizeEmail(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", Validation("メールアドレスを入力してください")
	}
	if len(trimmed) > 254 {
		return "", Validation("メールアドレスは254文字以内で入力してください")
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return "", Validation("メールアドレスの形式が正しくありません")
	}
	return strings.ToLower(trimmed), nil
}

// NormalizeURL trims an optional absolute http(s) URL.
func NormalizeURL(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	if len(trimmed) > 2048 {
		return "", Validation("URLが長すぎます")
	}
	parsed, err := url.ParseRequestURI(trimmed)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", Validation(fmt.Sprintf("URLの形式が不正です: %s", trimmed))
	}
	return trimmed, nil
}

// ValidateCompletionYear bounds completion years to plausible values.
func ValidateCompletionYear(year *int, now time.Time) error {
	if year == nil {
		return nil
	}
	if *year < 1900 || *year > now.Year()+5 {
		return Validation(fmt.Sprintf("竣工年が不正です: %d", *year))
	}
	return nil
}

// UniqueIDs removes duplicates and zero ids while keeping the first occurrence order.
func UniqueIDs(ids []uint) []uint {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uint]struct{}, len(ids))
	result := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

// MaxMessageLength bounds inquiry and reply bodies.
const MaxMessageLength = 5000

// NormalizeMessage trims a free-text message; label names the field in errors.
func NormalizeMessage(value, label string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", Validation(label + "を入力してください")
	}
	if utf8.RuneCountInString(trimmed) > MaxMessageLength {
		return "", Validation(fmt.Sprintf("%sは%d文字以内で入力してください", label, MaxMessageLength))
	}
	return trimmed, nil
}
