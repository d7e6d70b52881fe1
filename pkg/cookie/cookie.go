package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"
)

const minSecretLength = 32

// Manager issues and verifies HMAC-signed cookies. Several secrets allow
// rotation: new cookies are signed with the first, any of them verifies.
type Manager struct {
	secrets [][]byte
	opts    Options
}

func New(secrets []string, opts ...Option) (*Manager, error) {
	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return s == "" })
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}

	m := &Manager{opts: Options{Path: "/", SameSite: http.SameSiteLaxMode}}
	for i, s := range secrets {
		if len(s) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need %d", ErrSecretTooShort, i, len(s), minSecretLength)
		}
		m.secrets = append(m.secrets, []byte(s))
	}
	for _, opt := range opts {
		opt(&m.opts)
	}
	return m, nil
}

// SetSigned writes value with a signature.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, m.cookie(name, m.sign(value), m.opts.MaxAge))
}

// GetSigned returns the value of a cookie written by SetSigned.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrNotFound
		}
		return "", err
	}
	return m.verify(c.Value)
}

func (m *Manager) Delete(w http.ResponseWriter, name string) {
	c := m.cookie(name, "", -1)
	c.Expires = time.Unix(0, 0)
	http.SetCookie(w, c)
}

func (m *Manager) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     m.opts.Path,
		Domain:   m.opts.Domain,
		MaxAge:   maxAge,
		Secure:   m.opts.Secure,
		HttpOnly: true,
		SameSite: m.opts.SameSite,
	}
}

func (m *Manager) sign(value string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(value)) + "." + mac(m.secrets[0], value)
}

func (m *Manager) verify(signed string) (string, error) {
	encoded, sig, ok := strings.Cut(signed, ".")
	if !ok {
		return "", ErrInvalidFormat
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidFormat
	}
	value := string(raw)
	for _, secret := range m.secrets {
		if hmac.Equal([]byte(sig), []byte(mac(secret, value))) {
			return value, nil
		}
	}
	return "", ErrInvalidSignature
}

func mac(secret []byte, value string) string {
	h := hmac.New(sha256.New, secret)
	h.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
