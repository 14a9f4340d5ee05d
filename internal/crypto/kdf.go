package crypto

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Fixed info labels for the key-schedule KDFs (spec.md §4.1). These must be
// bit-exact for interop: changing any byte here changes every derived key.
const (
	labelRootKey    = "WASP_ROOT_KEY"
	labelMessageKey = "WASP_MESSAGE_KEY"
	labelX3DH       = "WASP_X3DH_MASTER_SECRET_v1"
	labelMedia      = "WASP_MEDIA_KEY_v1"
)

// HKDF runs HKDF-SHA256 extract-then-expand and returns l bytes.
func HKDF(ikm, salt, info []byte, l int) ([]byte, error) {
	r := hkdf.New(sha256.New, ikm, salt, info)
	out := make([]byte, l)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, err
	}
	return out, nil
}

// KDFRootKey implements KDF_RK: hkdf(ikm=dhOut, salt=rootKey, info=WASP_ROOT_KEY, L=64),
// split into a new 32-byte root key and a 32-byte chain key.
func KDFRootKey(rootKey, dhOut []byte) (newRootKey, chainKey []byte, err error) {
	out, err := HKDF(dhOut, rootKey, []byte(labelRootKey), 64)
	if err != nil {
		return nil, nil, err
	}
	return out[:32], out[32:], nil
}

// KDFChainKey implements KDF_CK: mk = HMAC(CK, 0x01), nextCK = HMAC(CK, 0x02).
func KDFChainKey(chainKey []byte) (messageKey, nextChainKey []byte) {
	return HMAC(chainKey, []byte{0x01}), HMAC(chainKey, []byte{0x02})
}

// KDFMessageKey implements KDF_MK: expand mk to (cipherKey32, macKey32, iv12);
// the trailing 4 bytes of the 80-byte expansion are discarded.
func KDFMessageKey(mk []byte) (cipherKey, macKey, iv []byte, err error) {
	out, err := HKDF(mk, nil, []byte(labelMessageKey), 80)
	if err != nil {
		return nil, nil, nil, err
	}
	return out[0:32], out[32:64], out[64:76], nil
}

// KDFX3DH implements KDF_X3DH: ikm = 0xFF*32 ‖ dh1 ‖ dh2 ‖ dh3 [‖ dh4], salt =
// 32 zero bytes, info = WASP_X3DH_MASTER_SECRET_v1, L = 32.
func KDFX3DH(dhOutputs ...[]byte) ([]byte, error) {
	ikm := make([]byte, 32, 32+32*len(dhOutputs))
	for i := range ikm {
		ikm[i] = 0xFF
	}
	for _, dh := range dhOutputs {
		ikm = append(ikm, dh...)
	}
	salt := make([]byte, 32)
	return HKDF(ikm, salt, []byte(labelX3DH), 32)
}

// KDFMedia implements KDF_Media: expand the 64-byte media key to
// (iv16, cipherKey32, macKey32).
func KDFMedia(mediaKey []byte) (iv, cipherKey, macKey []byte, err error) {
	out, err := HKDF(mediaKey, nil, []byte(labelMedia), 80)
	if err != nil {
		return nil, nil, nil, err
	}
	return out[0:16], out[16:48], out[48:80], nil
}
