package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials はユーザー名またはパスワードが一致しないことを表す。
// ユーザーが存在するかどうかは区別しない。
var ErrInvalidCredentials = errors.New("invalid username or password")

// Credential は資格情報ストアに登録されたユーザーを表す。
type Credential struct {
	// Username はユーザー名。
	Username string
	// passwordHash はbcryptでハッシュ化したパスワード。
	passwordHash []byte
}

// CredentialStore はユーザー名からパスワードハッシュへの固定マッピング。
// 生成後は変更されないため、ロックなしで並行に参照できる。
type CredentialStore struct {
	// users はユーザー名をキーとした資格情報。
	users map[string]Credential
	// dummyHash は存在しないユーザーの照合に使用するハッシュ。
	dummyHash []byte
}

// NewCredentialStore はユーザー名と平文パスワードのマップから資格情報ストアを生成する。
// パスワードは生成時にbcryptでハッシュ化され、平文は保持しない。
// bcryptは72バイトを超える入力を扱えないため、SHA-256で固定長にしてから渡す。
// costには bcrypt.DefaultCost 等を指定する（テストでは bcrypt.MinCost を使う）。
func NewCredentialStore(users map[string]string, cost int) (*CredentialStore, error) {
	store := &CredentialStore{users: make(map[string]Credential, len(users))}
	for username, password := range users {
		hash, err := bcrypt.GenerateFromPassword(prehash(password), cost)
		if err != nil {
			return nil, fmt.Errorf("パスワードのハッシュ化に失敗: user=%s: %w", username, err)
		}
		store.users[username] = Credential{Username: username, passwordHash: hash}
	}

	dummy, err := bcrypt.GenerateFromPassword(prehash("dummy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("ダミーハッシュの生成に失敗: %w", err)
	}
	store.dummyHash = dummy

	return store, nil
}

// Authenticate はユーザー名とパスワードを照合する。
// 一致した場合のみ資格情報とtrueを返す。存在しないユーザーでもダミーハッシュとの
// 比較を行い、応答時間からユーザーの存在が推測されないようにする。
func (s *CredentialStore) Authenticate(username, password string) (Credential, bool) {
	cred, ok := s.users[username]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, prehash(password))
		return Credential{}, false
	}
	if err := bcrypt.CompareHashAndPassword(cred.passwordHash, prehash(password)); err != nil {
		return Credential{}, false
	}
	return cred, true
}

// Len は登録されているユーザー数を返す。
func (s *CredentialStore) Len() int {
	return len(s.users)
}

// prehash はパスワードをSHA-256でハッシュし、base64で44バイトの文字列にする。
// bcryptの72バイト制限による切り捨てで照合結果が変わらないようにする。
func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
