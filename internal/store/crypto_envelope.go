package store

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/scrypt"

	"wasp/internal/crypto"
)

// keystoreFormatVersion is the current supported version of the encrypted
// blob format stored on disk.
const keystoreFormatVersion = 1

// errWrongPassphrase is returned when the passphrase is incorrect or the
// ciphertext has been modified or corrupted.
var errWrongPassphrase = errors.New("wrong passphrase or corrupted store file")

// blob is the on-disk JSON structure holding the ciphertext and KDF
// parameters for one encrypted store file.
type blob struct {
	V      int    `json:"v"`
	Salt   []byte `json:"salt"`
	Nonce  []byte `json:"nonce"`
	N      int    `json:"scrypt_n"`
	R      int    `json:"scrypt_r"`
	P      int    `json:"scrypt_p"`
	Cipher []byte `json:"cipher"`
}

// encryptAtRest derives a key from passphrase with scrypt and seals raw
// with the same AES-256-GCM primitive the protocol core uses (spec.md
// §4.1) into a JSON blob. Every store file gets its own random salt and
// nonce, so there is no key or nonce reuse across files or across writes.
func encryptAtRest(passphrase string, raw []byte) ([]byte, error) {
	n, r, p := scryptParamsDefault()

	var salt [16]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return nil, err
	}
	key, err := scrypt.Key([]byte(passphrase), salt[:], n, r, p, 32)
	if err != nil {
		return nil, err
	}

	nonce, err := crypto.RandBytes(12)
	if err != nil {
		return nil, err
	}
	ct, err := crypto.Seal(key, nonce, raw, salt[:])
	if err != nil {
		return nil, err
	}

	return json.Marshal(blob{
		V:      keystoreFormatVersion,
		Salt:   salt[:],
		Nonce:  nonce,
		N:      n,
		R:      r,
		P:      p,
		Cipher: ct,
	})
}

// decryptAtRest opens a blob produced by encryptAtRest.
func decryptAtRest(passphrase string, raw []byte) ([]byte, error) {
	var bl blob
	if err := strictUnmarshal(raw, &bl); err != nil {
		return nil, err
	}
	if bl.V > keystoreFormatVersion {
		return nil, fmt.Errorf("store: unsupported keystore version %d", bl.V)
	}

	key, err := scrypt.Key([]byte(passphrase), bl.Salt, bl.N, bl.R, bl.P, 32)
	if err != nil {
		return nil, err
	}
	pt, err := crypto.Open(key, bl.Nonce, bl.Cipher, bl.Salt)
	if err != nil {
		return nil, errWrongPassphrase
	}
	return pt, nil
}

// scryptParamsDefault returns the scrypt cost parameters used for every new
// write. N=2^15 costs roughly 30-60ms on commodity hardware as of this
// writing — deliberately slow enough to blunt offline passphrase guessing
// without making interactive unlocks annoying.
func scryptParamsDefault() (n, r, p int) { return 1 << 15, 8, 1 }
