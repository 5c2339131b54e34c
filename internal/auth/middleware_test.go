package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/lestrrat-go/jwx/v2/jwa"

	"github.com/sarmad153/nextrade-api/internal/common"
	dbgen "github.com/sarmad153/nextrade-api/internal/db/gen"
)

type fakeUserDirectory struct {
	roles []string
}

func (f fakeUserDirectory) GetUserByID(_ context.Context, id pgtype.UUID) (dbgen.User, error) {
	return dbgen.User{ID: id, Email: "buyer@example.com", Name: "Buyer", Roles: f.roles}, nil
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	mw := Middleware{Service: newTestService(t)}
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
}

func TestRequireAuthAttachesUserAndRoles(t *testing.T) {
	mw := Middleware{Service: newTestService(t), Users: fakeUserDirectory{roles: []string{"buyer", "seller"}}}
	var gotUser string
	var gotRoles []string
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = common.UserID(r.Context())
		gotRoles = common.Roles(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "super-secret-key", jwa.HS256, nil))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", rr.Code)
	}
	if gotUser != "3b9f6c1e-5b3a-4b44-bf0d-0c9f6a6a2f10" {
		t.Fatalf("unexpected user id: %s", gotUser)
	}
	if len(gotRoles) != 2 || gotRoles[1] != "seller" {
		t.Fatalf("unexpected roles: %v", gotRoles)
	}
}

func TestRequireRoleForbidsMissingRole(t *testing.T) {
	mw := Middleware{Service: newTestService(t), Users: fakeUserDirectory{roles: []string{"buyer"}}}
	handler := mw.RequireAuth(mw.RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})))

	req := httptest.NewRequest(http.MethodPatch, "/admin/orders/abc", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "super-secret-key", jwa.HS256, nil))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rr.Code)
	}
}
