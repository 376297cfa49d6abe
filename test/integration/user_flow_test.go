package integration

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/clinica/clinica/internal/domain/user"
)

func TestUserAdministrationFlow(t *testing.T) {
	globalBackend.reset()
	_, sess, client := newSession(t)
	loginAs(t, sess, "admin@clinica.com", "admin123")

	ctx := context.Background()
	svc := user.NewService(client, zerolog.Nop())

	var created *user.Usuario
	t.Run("Create", func(t *testing.T) {
		var fields user.FieldErrors
		var err error
		created, fields, err = svc.Create(ctx, &user.Usuario{
			Nombre:   "Laura",
			Apellido: "Gómez",
			Email:    "laura@clinica.com",
			Password: "secreta1",
			Rol:      "MEDICO",
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if len(fields) > 0 {
			t.Fatalf("unexpected field errors: %v", fields)
		}
		if created.IDUsuario == 0 {
			t.Fatal("expected an assigned id")
		}
	})

	t.Run("ListOmitsPassword", func(t *testing.T) {
		usuarios, err := svc.List(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(usuarios) != 1 {
			t.Fatalf("expected 1 account, got %d", len(usuarios))
		}
		if usuarios[0].Password != "" {
			t.Error("list response leaked the password")
		}
	})

	t.Run("ChangePassword", func(t *testing.T) {
		if err := svc.ChangePassword(ctx, created.IDUsuario, "nuevaClave"); err != nil {
			t.Fatal(err)
		}
		globalBackend.mu.Lock()
		stored := globalBackend.usuarios[created.IDUsuario]["password"]
		globalBackend.mu.Unlock()
		if stored != "nuevaClave" {
			t.Errorf("expected the raw body stored as password, got %v", stored)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		lv := user.NewListView(svc, 0)
		if err := lv.Load(ctx); err != nil {
			t.Fatal(err)
		}
		removed, err := lv.Delete(ctx, 0, func(u user.Usuario) bool { return u.Email == "laura@clinica.com" })
		if err != nil {
			t.Fatal(err)
		}
		if !removed {
			t.Fatal("expected removal")
		}
		usuarios, err := svc.List(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(usuarios) != 0 {
			t.Errorf("account still present after delete: %v", usuarios)
		}
	})
}
