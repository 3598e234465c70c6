package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignNonceMatchesHmac(t *testing.T) {
	secret := "s3cr3t-key"
	nonce := "1700000000123"
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(nonce))
	exp := hex.EncodeToString(mac.Sum(nil))

	s := NewSigner(secret)
	assert.Equal(t, exp, s.SignNonce(nonce))
	assert.Equal(t, s.SignNonce(nonce), NewSigner(secret).SignNonce(nonce))
	assert.NotEqual(t, exp, NewSigner("other").SignNonce(nonce))
}

func TestSignUsesClock(t *testing.T) {
	s := NewSigner("abc")
	s.nowMS = func() int64 { return 1700000000123 }
	h := s.Sign()
	assert.Equal(t, "1700000000123", h.Nonce)
	assert.Equal(t, s.SignNonce("1700000000123"), h.Signature)
	assert.Len(t, h.Signature, 64)
	assert.True(t, s.Verify(h.Nonce, h.Signature))
}

func TestSignRealClock(t *testing.T) {
	s := NewSigner("abc")
	before := time.Now().UnixMilli()
	h := s.Sign()
	nonce, err := strconv.ParseInt(h.Nonce, 10, 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, nonce, before)

	h2 := s.Sign()
	n2, err := strconv.ParseInt(h2.Nonce, 10, 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n2, nonce)
	if h2.Nonce == h.Nonce {
		assert.Equal(t, h.Signature, h2.Signature)
	}
}

func TestVerify(t *testing.T) {
	s := NewSigner("abc")
	sig := s.SignNonce("42")
	assert.True(t, s.Verify("42", sig))
	assert.True(t, s.Verify("42", strings.ToUpper(sig)))
	assert.False(t, s.Verify("43", sig))
	assert.False(t, s.Verify("42", ""))
}

func TestApplyHeaders(t *testing.T) {
	header := http.Header{}
	AuthHeaders{Nonce: "1", Signature: "ab"}.Apply(header)
	assert.Equal(t, "1", header.Get(HeaderNonce))
	assert.Equal(t, "ab", header.Get(HeaderSignature))
}
