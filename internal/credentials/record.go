package credentials

import (
	"errors"
	"time"

	"voxlock/internal/vault"
)

// Record is the per-identity credential bundle: the enrolled voice template
// plus the sealed secret phrase. One record exists per identity; re-signup
// and reset overwrite it wholesale, never partially.
type Record struct {
	Identity         string
	VoiceTemplate    []byte
	PhraseCiphertext []byte
	PhraseKey        []byte
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PhraseCipher assembles the record's sealed phrase pair.
func (r *Record) PhraseCipher() *vault.PhraseCipher {
	return &vault.PhraseCipher{Ciphertext: r.PhraseCiphertext, Key: r.PhraseKey}
}

// Validate checks the invariants every persisted record must satisfy.
func (r *Record) Validate() error {
	switch {
	case r == nil:
		return errors.New("credentials: nil record")
	case r.Identity == "":
		return errors.New("credentials: identity must be set")
	case len(r.VoiceTemplate) == 0:
		return errors.New("credentials: voice template must not be empty")
	case len(r.PhraseCiphertext) == 0:
		return errors.New("credentials: phrase ciphertext must not be empty")
	case len(r.PhraseKey) == 0:
		return errors.New("credentials: phrase key must not be empty")
	}
	return nil
}
