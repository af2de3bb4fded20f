package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidSignature rejects a webhook whose signature does not verify.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// DefaultTolerance is how far a webhook timestamp may drift before the
// event is treated as a replay.
const DefaultTolerance = 5 * time.Minute

// VerifySignature checks the provider's signature header against the raw
// payload. The header carries a unix timestamp and an HMAC-SHA256 of
// "<timestamp>.<payload>" under the shared secret, as
// "t=<unix>,v1=<hex>". Multiple v1 entries are accepted to allow secret
// rotation.
func VerifySignature(payload []byte, header, secret string, tolerance time.Duration, now time.Time) error {
	var timestamp int64 = -1
	var signatures []string

	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			ts, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return fmt.Errorf("%w: bad timestamp", ErrInvalidSignature)
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, v)
		}
	}

	if timestamp < 0 || len(signatures) == 0 {
		return fmt.Errorf("%w: malformed header", ErrInvalidSignature)
	}

	if drift := now.Sub(time.Unix(timestamp, 0)); drift > tolerance || drift < -tolerance {
		return fmt.Errorf("%w: timestamp outside tolerance", ErrInvalidSignature)
	}

	expected := computeSignature(payload, timestamp, secret)
	for _, sig := range signatures {
		decoded, err := hex.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(decoded, expected) {
			return nil
		}
	}
	return ErrInvalidSignature
}

// SignPayload builds a signature header for payload at ts. Used by tests
// and the local webhook replay tool.
func SignPayload(payload []byte, ts time.Time, secret string) string {
	sig := computeSignature(payload, ts.Unix(), secret)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(sig))
}

func computeSignature(payload []byte, timestamp int64, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return mac.Sum(nil)
}
