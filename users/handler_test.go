package users

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"userapp/server"
	"userapp/services/auth"
	"userapp/services/token"
	"userapp/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testAPI struct {
	srv    *server.Server
	db     *gorm.DB
	mailer *testutils.MockMailer
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	db := testutils.SetupTestDB(t, &User{}, &auth.EmailCode{})
	cfg := testConfig()
	cfg.Server.Host = "localhost"
	cfg.Server.Port = "0"
	mailer := &testutils.MockMailer{}
	mailer.On("SendHTML", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	tokens := token.NewService(cfg, nil)
	svc := NewService(cfg, db, auth.NewService(cfg, db, nil), tokens, mailer, nil)

	srv := server.New(cfg, nil)
	RegisterRoutes(srv, NewHandler(svc, nil), tokens, cfg)

	return &testAPI{srv: srv, db: db, mailer: mailer}
}

func (a *testAPI) do(t *testing.T, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	a.srv.Echo().ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) register(t *testing.T, email string) (userID uint, code string) {
	t.Helper()

	body := fmt.Sprintf(`{"email":%q,"password":"pw1","firstName":"Jo","lastName":"Do","country":"US","image":"img.png","frontBaseUrl":"http://front.example.com"}`, email)
	rec := a.do(t, http.MethodPost, "/users", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	var emailCode auth.EmailCode
	require.NoError(t, a.db.Where("user_id = ? AND purpose = ?", created.ID, auth.PurposeEmailVerify).
		First(&emailCode).Error)

	return created.ID, emailCode.Code
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp["message"]
}

func TestRegisterEndpoint(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/users",
		`{"email":"a@x.com","password":"pw1","firstName":"Jo","lastName":"Do","country":"US","image":"img.png","frontBaseUrl":"http://front.example.com"}`)

	require.Equal(t, http.StatusCreated, rec.Code)

	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "a@x.com", created["email"])
	assert.Equal(t, false, created["isVerified"])
	assert.NotContains(t, created, "password", "stored hash must never leave the API")
}

func TestVerifyEndpoint(t *testing.T) {
	api := newTestAPI(t)
	_, code := api.register(t, "a@x.com")

	rec := api.do(t, http.MethodGet, "/users/verify/"+code, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var verified map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verified))
	assert.Equal(t, true, verified["isVerified"])

	rec = api.do(t, http.MethodGet, "/users/verify/"+code, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Code not found", message(t, rec))
}

func TestLoginEndpoint(t *testing.T) {
	api := newTestAPI(t)
	_, code := api.register(t, "a@x.com")

	t.Run("unverified account rejected", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/users/login", `{"email":"a@x.com","password":"pw1"}`)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "User not verified", message(t, rec))
	})

	require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/users/verify/"+code, "").Code)

	t.Run("unknown email and wrong password share a response shape", func(t *testing.T) {
		unknown := api.do(t, http.MethodPost, "/users/login", `{"email":"nobody@x.com","password":"pw1"}`)
		wrongPw := api.do(t, http.MethodPost, "/users/login", `{"email":"a@x.com","password":"bad"}`)

		assert.Equal(t, http.StatusUnauthorized, unknown.Code)
		assert.Equal(t, http.StatusUnauthorized, wrongPw.Code)
		assert.JSONEq(t, unknown.Body.String(), wrongPw.Body.String())
	})

	t.Run("success returns user and token", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/users/login", `{"email":"a@x.com","password":"pw1"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			User  map[string]any `json:"user"`
			Token string         `json:"token"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "a@x.com", resp.User["email"])
		assert.NotContains(t, resp.User, "password")
		assert.NotEmpty(t, resp.Token)
	})
}

func TestMeEndpoint(t *testing.T) {
	api := newTestAPI(t)
	_, code := api.register(t, "a@x.com")
	require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/users/verify/"+code, "").Code)

	login := api.do(t, http.MethodPost, "/users/login", `{"email":"a@x.com","password":"pw1"}`)
	require.Equal(t, http.StatusOK, login.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &resp))

	t.Run("returns the token holder's account", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, "/users/me", "", "Authorization", "Bearer "+resp.Token)
		require.Equal(t, http.StatusOK, rec.Code)

		var me map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
		assert.Equal(t, "a@x.com", me["email"])
	})

	t.Run("rejects missing token", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, "/users/me", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects tampered token", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, "/users/me", "", "Authorization", "Bearer "+resp.Token+"x")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestDirectoryEndpoints(t *testing.T) {
	api := newTestAPI(t)
	userID, _ := api.register(t, "a@x.com")

	t.Run("list", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, "/users", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var users []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
		assert.Len(t, users, 1)
	})

	t.Run("get one", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, fmt.Sprintf("/users/%d", userID), "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("get missing returns empty 404", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, "/users/9999", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("update", func(t *testing.T) {
		rec := api.do(t, http.MethodPut, fmt.Sprintf("/users/%d", userID),
			`{"firstName":"Jane","lastName":"Doe","country":"CA","image":"new.png"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var updated map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		assert.Equal(t, "Jane", updated["firstName"])
	})

	t.Run("update missing returns empty 404", func(t *testing.T) {
		rec := api.do(t, http.MethodPut, "/users/9999", `{"firstName":"X"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		rec := api.do(t, http.MethodDelete, fmt.Sprintf("/users/%d", userID), "")
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = api.do(t, http.MethodDelete, fmt.Sprintf("/users/%d", userID), "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestPasswordResetEndpoints(t *testing.T) {
	api := newTestAPI(t)
	userID, code := api.register(t, "a@x.com")
	require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/users/verify/"+code, "").Code)

	t.Run("request for unknown email rejects without detail", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/users/reset_password",
			`{"email":"nobody@x.com","frontBaseUrl":"http://front.example.com"}`)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid credentials", message(t, rec))
	})

	t.Run("request issues code and reports sending", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/users/reset_password",
			`{"email":"a@x.com","frontBaseUrl":"http://front.example.com"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "Sending email", message(t, rec))
	})

	t.Run("confirm with unknown code rejects", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/users/reset_password/bogus", `{"password":"pw2"}`)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid or expired code", message(t, rec))
	})

	t.Run("confirm replaces the password", func(t *testing.T) {
		var resetCode auth.EmailCode
		require.NoError(t, api.db.Where("user_id = ? AND purpose = ?", userID, auth.PurposePasswordReset).
			First(&resetCode).Error)

		rec := api.do(t, http.MethodPost, "/users/reset_password/"+resetCode.Code, `{"password":"pw2"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Password reset successfully", message(t, rec))

		old := api.do(t, http.MethodPost, "/users/login", `{"email":"a@x.com","password":"pw1"}`)
		assert.Equal(t, http.StatusUnauthorized, old.Code)

		fresh := api.do(t, http.MethodPost, "/users/login", `{"email":"a@x.com","password":"pw2"}`)
		assert.Equal(t, http.StatusOK, fresh.Code)
	})
}
