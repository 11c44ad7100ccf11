// Package sigv4 implements the AWS Signature Version 4 request signing
// used by the Product Advertising API. Signing is a pure function of the
// payload, the timestamp and the credentials, so the same inputs always
// produce the same authorization header.
package sigv4

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	Algorithm       = "AWS4-HMAC-SHA256"
	terminalString  = "aws4_request"
	ContentType     = "application/json; charset=UTF-8"
	ContentEncoding = "amz-1.0"
)

type Credentials struct {
	AccessKey string
	SecretKey string
	Region    string
	Service   string
}

// Request names the parts of the outgoing call that participate in the
// canonical request. Query strings are unused by the PA-API endpoint and
// always canonicalize to "".
type Request struct {
	Host   string
	Path   string
	Target string
}

func hmacSha256(key []byte, data string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(data))
	return mac.Sum(nil)
}

func hashHex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// derives the per-date, per-scope signing key:
// HMAC("AWS4"+secret, date) -> region -> service -> "aws4_request"
func signingKey(secret, dateStamp, region, service string) []byte {
	kDate := hmacSha256([]byte("AWS4"+secret), dateStamp)
	kRegion := hmacSha256(kDate, region)
	kService := hmacSha256(kRegion, service)
	return hmacSha256(kService, terminalString)
}

// Sign computes the signed header set for a POST of `payload` to the given
// request at time `now`. The returned map contains the five protocol headers
// plus Authorization; iterate it onto the outgoing request as-is.
func Sign(payload []byte, now time.Time, creds Credentials, req Request) (map[string]string, error) {
	if creds.AccessKey == "" || creds.SecretKey == "" {
		return nil, fmt.Errorf("sigv4: empty access or secret key")
	}
	if req.Host == "" || req.Path == "" {
		return nil, fmt.Errorf("sigv4: request host and path are required")
	}

	amzDate := now.UTC().Format("20060102T150405Z")
	dateStamp := amzDate[:8]

	headers := map[string]string{
		"content-encoding": ContentEncoding,
		"content-type":     ContentType,
		"host":             req.Host,
		"x-amz-date":       amzDate,
		"x-amz-target":     req.Target,
	}

	names := make([]string, 0, len(headers))
	for k := range headers {
		names = append(names, k)
	}
	sort.Strings(names)

	signedHeaders := strings.Join(names, ";")
	var canonicalHeaders strings.Builder
	for _, k := range names {
		canonicalHeaders.WriteString(k)
		canonicalHeaders.WriteString(":")
		canonicalHeaders.WriteString(headers[k])
		canonicalHeaders.WriteString("\n")
	}

	canonicalRequest := strings.Join([]string{
		"POST",
		req.Path,
		"", // canonical query string
		canonicalHeaders.String(),
		signedHeaders,
		hashHex(payload),
	}, "\n")

	credentialScope := strings.Join([]string{
		dateStamp, creds.Region, creds.Service, terminalString,
	}, "/")
	stringToSign := strings.Join([]string{
		Algorithm,
		amzDate,
		credentialScope,
		hashHex([]byte(canonicalRequest)),
	}, "\n")

	key := signingKey(creds.SecretKey, dateStamp, creds.Region, creds.Service)
	signature := hex.EncodeToString(hmacSha256(key, stringToSign))

	headers["Authorization"] = fmt.Sprintf(
		"%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		Algorithm, creds.AccessKey, credentialScope, signedHeaders, signature,
	)
	return headers, nil
}
