package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"

	"github.com/cryptodiscord/cryptobot/btime"
)

const (
	HeaderNonce     = "X-Bot-Nonce"
	HeaderSignature = "X-Bot-Signature"
)

// AuthHeaders is single use: build a new pair for every outbound request.
type AuthHeaders struct {
	Nonce     string
	Signature string
}

func (h AuthHeaders) Apply(header http.Header) {
	header.Set(HeaderNonce, h.Nonce)
	header.Set(HeaderSignature, h.Signature)
}

type Signer struct {
	secret []byte
	nowMS  func() int64
}

func NewSigner(secret string) *Signer {
	return &Signer{
		secret: []byte(secret),
		nowMS:  btime.UTCStamp,
	}
}

/*
Sign
nonce is the current unix time in milliseconds, signature is the lowercase hex
HMAC-SHA256 of the nonce keyed by the shared secret.
*/
func (s *Signer) Sign() AuthHeaders {
	nonce := strconv.FormatInt(s.nowMS(), 10)
	return AuthHeaders{
		Nonce:     nonce,
		Signature: s.SignNonce(nonce),
	}
}

func (s *Signer) SignNonce(nonce string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(nonce))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a signature the same way the account API does (case-insensitive hex).
func (s *Signer) Verify(nonce, signature string) bool {
	expected := s.SignNonce(nonce)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}
