package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// newTestCredentialStore はテスト用の資格情報ストアを生成する。
func newTestCredentialStore(t *testing.T) *CredentialStore {
	t.Helper()

	store, err := NewCredentialStore(map[string]string{
		"testuser": "password",
		"alice":    "Secret123",
	}, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewCredentialStore()でエラーが発生: %v", err)
	}
	return store
}

// TestCredentialStore_Authenticate はAuthenticateを検証する。
func TestCredentialStore_Authenticate(t *testing.T) {
	t.Parallel()

	store := newTestCredentialStore(t)

	tests := []struct {
		name     string
		username string
		password string
		wantOK   bool
	}{
		{name: "正しいユーザー名とパスワード", username: "testuser", password: "password", wantOK: true},
		{name: "別ユーザーの正しいパスワード", username: "alice", password: "Secret123", wantOK: true},
		{name: "パスワード違い", username: "testuser", password: "wrong", wantOK: false},
		{name: "大文字小文字を区別する", username: "alice", password: "secret123", wantOK: false},
		{name: "空のパスワード", username: "testuser", password: "", wantOK: false},
		{name: "存在しないユーザー", username: "nobody", password: "password", wantOK: false},
		{name: "他ユーザーのパスワード", username: "alice", password: "password", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cred, ok := store.Authenticate(tt.username, tt.password)
			if ok != tt.wantOK {
				t.Fatalf("Authenticate(%q, %q) ok = %v, want %v", tt.username, tt.password, ok, tt.wantOK)
			}
			if ok && cred.Username != tt.username {
				t.Errorf("Username = %q, want %q", cred.Username, tt.username)
			}
			if !ok && cred.Username != "" {
				t.Errorf("失敗時に資格情報が返された: %+v", cred)
			}
		})
	}
}

// TestNewCredentialStore はNewCredentialStoreを検証する。
func TestNewCredentialStore(t *testing.T) {
	t.Parallel()

	t.Run("平文パスワードを保持しないこと", func(t *testing.T) {
		t.Parallel()

		store := newTestCredentialStore(t)
		if store.Len() != 2 {
			t.Fatalf("Len() = %d, want 2", store.Len())
		}
		cred := store.users["testuser"]
		if string(cred.passwordHash) == "password" {
			t.Error("パスワードが平文のまま保持されている")
		}
		if err := bcrypt.CompareHashAndPassword(cred.passwordHash, prehash("password")); err != nil {
			t.Errorf("保持されたハッシュが元のパスワードと一致しない: %v", err)
		}
	})

	t.Run("不正なコストでエラーになること", func(t *testing.T) {
		t.Parallel()

		_, err := NewCredentialStore(map[string]string{"a": "b"}, bcrypt.MaxCost+1)
		if err == nil {
			t.Fatal("NewCredentialStore()がエラーを返すべき")
		}
	})
}

// TestCredentialStore_LongPassword は72バイトを超えるパスワードでも完全一致で照合されることを検証する。
func TestCredentialStore_LongPassword(t *testing.T) {
	t.Parallel()

	exact72 := strings.Repeat("a", 72)
	long := strings.Repeat("b", 100)

	store, err := NewCredentialStore(map[string]string{
		"u72":  exact72,
		"long": long,
	}, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("長いパスワードでNewCredentialStore()がエラーを返した: %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
		wantOK   bool
	}{
		{name: "72バイトのパスワードが一致すること", username: "u72", password: exact72, wantOK: true},
		{name: "72バイトのパスワードに接尾辞を付けると拒否されること", username: "u72", password: exact72 + "EXTRA-SUFFIX", wantOK: false},
		{name: "72バイト超のパスワードが一致すること", username: "long", password: long, wantOK: true},
		{name: "72バイト超のパスワードの先頭72バイトだけでは拒否されること", username: "long", password: long[:72], wantOK: false},
		{name: "72バイト超のパスワードの末尾が違うと拒否されること", username: "long", password: long[:99] + "c", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, ok := store.Authenticate(tt.username, tt.password); ok != tt.wantOK {
				t.Errorf("Authenticate(%q, len=%d) ok = %v, want %v", tt.username, len(tt.password), ok, tt.wantOK)
			}
		})
	}
}
