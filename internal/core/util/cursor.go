package util

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

type cursorData struct {
	ID int `json:"id"`
}

// CursorCodec signs list-pagination cursors so clients cannot forge or
// tamper with them. The secret comes from configuration, not ambient env.
type CursorCodec struct {
	secret []byte
}

func NewCursorCodec(secret string) *CursorCodec {
	return &CursorCodec{secret: []byte(secret)}
}

func (cc *CursorCodec) signature(encoded string) string {
	mac := hmac.New(sha256.New, cc.secret)
	mac.Write([]byte(encoded))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func (cc *CursorCodec) Encode(id int) string {
	jsonData, _ := json.Marshal(cursorData{ID: id})
	encoded := base64.StdEncoding.EncodeToString(jsonData)

	return encoded + "." + cc.signature(encoded)
}

func (cc *CursorCodec) Decode(token string) (int, error) {
	parts := strings.Split(token, ".")

	if len(parts) != 2 {
		return 0, errors.New("invalid cursor format")
	}

	if !hmac.Equal([]byte(parts[1]), []byte(cc.signature(parts[0]))) {
		return 0, errors.New("invalid cursor signature")
	}

	decoded, err := base64.StdEncoding.DecodeString(parts[0])

	if err != nil {
		return 0, err
	}

	var cursor cursorData
	if err := json.Unmarshal(decoded, &cursor); err != nil {
		return 0, err
	}

	return cursor.ID, nil
}
