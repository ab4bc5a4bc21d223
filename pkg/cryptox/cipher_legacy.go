package cryptox

import (
	"bytes"
	"crypto/cipher"
)

// decryptCBC opens an AES-CBC ciphertext with PKCS#7 padding, the layout the
// first generation of users.json files was written with.
func decryptCBC(block cipher.Block, iv, ciphertext []byte) (string, error) {
	bs := block.BlockSize()
	if len(ciphertext) == 0 || len(ciphertext)%bs != 0 {
		return "", ErrDecryption
	}

	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)

	pad := int(out[len(out)-1])
	if pad == 0 || pad > bs || pad > len(out) {
		return "", ErrDecryption
	}
	if !bytes.Equal(out[len(out)-pad:], bytes.Repeat([]byte{byte(pad)}, pad)) {
		return "", ErrDecryption
	}
	return string(out[:len(out)-pad]), nil
}
