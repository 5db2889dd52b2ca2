package padcfg

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DomainConfig separates config body hashes from any other SHA-256 use.
// The version suffix allows the hashed form to change later.
const DomainConfig = "padconv/config/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// BodyHash returns the content hash of a rendered document, ignoring the
// "Creation date" header line. Two renders of the same profile and USD path
// hash identically whenever they were generated.
func BodyHash(data []byte) string {
	var body bytes.Buffer
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, timestampPrefix) {
			continue
		}
		body.WriteString(line)
		body.WriteByte('\n')
	}
	return hashWithDomain(DomainConfig, norm.NFC.Bytes(body.Bytes()))
}
