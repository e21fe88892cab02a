package handlers_test

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"tattva/internal/repos"
	"tattva/internal/services"
)

// Seeded passwords must be stored hashed, never plaintext.
func TestPasswordsSeededAreHashed(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	var hashes []string
	if err := db.Select(&hashes, `SELECT password_hash FROM users`); err != nil {
		t.Fatalf("select hashes: %v", err)
	}
	if len(hashes) == 0 {
		t.Fatal("no users seeded")
	}
	for _, h := range hashes {
		if strings.Contains(h, "Passw0rd!") {
			t.Fatalf("hash contains plaintext password")
		}
		if !strings.HasPrefix(h, "$2") {
			t.Fatalf("unexpected hash format: %s", h)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(h), []byte("Passw0rd!")); err != nil {
			t.Fatalf("seed hash does not validate known password: %v", err)
		}
	}
}

func TestLoginBindsAndUnbindsSession(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	authSvc := &services.AuthService{Users: repos.NewUserRepo(db)}

	sid := "sid-auth-test"
	u, err := authSvc.Login(sid, "priya@tattva.test", "Passw0rd!")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.Role != "USER" {
		t.Fatalf("want USER role, got %s", u.Role)
	}

	cur, err := authSvc.CurrentUser(sid)
	if err != nil || cur == nil || cur.ID != u.ID {
		t.Fatalf("session should resolve to the logged-in user: %v %v", cur, err)
	}

	if err := authSvc.Logout(sid); err != nil {
		t.Fatalf("logout: %v", err)
	}
	cur, _ = authSvc.CurrentUser(sid)
	if cur != nil {
		t.Fatalf("session should be unbound after logout, got %+v", cur)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	authSvc := &services.AuthService{Users: repos.NewUserRepo(db)}

	if _, err := authSvc.Login("sid-x", "priya@tattva.test", "wrongpass!"); err != services.ErrBadCreds {
		t.Fatalf("want ErrBadCreds, got %v", err)
	}
	if _, err := authSvc.Login("sid-x", "nobody@tattva.test", "Passw0rd!"); err != services.ErrBadCreds {
		t.Fatalf("unknown email: want ErrBadCreds, got %v", err)
	}
}
