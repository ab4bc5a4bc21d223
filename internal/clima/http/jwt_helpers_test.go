package http_test

import "encoding/base64"

func jwtDecode(segment string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(segment)
	return string(b), err
}
