package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"

	"github.com/go-petr/cash-card/internal/authnservice"
	"github.com/go-petr/cash-card/internal/authzpolicy"
	"github.com/go-petr/cash-card/internal/credentialrepo"
	"github.com/go-petr/cash-card/internal/domain"
	"github.com/go-petr/cash-card/internal/test"
	"github.com/go-petr/cash-card/pkg/errorspkg"
	"github.com/go-petr/cash-card/pkg/web"
)

const testCost = 4

func newAuthenticator(t *testing.T) *authnservice.Service {
	t.Helper()

	var entries []credentialrepo.Entry
	for _, u := range test.SeedUsers() {
		entries = append(entries, credentialrepo.Entry{
			Username: u.Username,
			Password: u.Password,
			Role:     u.Role,
		})
	}

	store, err := credentialrepo.NewRepoFile(entries, testCost)
	if err != nil {
		t.Fatalf("credentialrepo.NewRepoFile returned error: %v", err)
	}

	a, err := authnservice.New(store, testCost)
	if err != nil {
		t.Fatalf("authnservice.New returned error: %v", err)
	}

	return a
}

func TestAuthenticateAndAuthorize(t *testing.T) {
	gin.SetMode(gin.TestMode)

	authn := newAuthenticator(t)
	policy := authzpolicy.RoleRestricted("/cashcards", domain.RoleCardOwner)

	testCases := []struct {
		name           string
		setupAuth      func(r *http.Request)
		wantStatusCode int
		wantError      string
		wantChallenge  bool
	}{
		{
			name:           "NoAuthorization",
			setupAuth:      func(r *http.Request) {},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      domain.ErrUnauthenticated.Error(),
			wantChallenge:  true,
		},
		{
			name: "BearerIsNotBasic",
			setupAuth: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer abc")
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      domain.ErrUnauthenticated.Error(),
			wantChallenge:  true,
		},
		{
			name: "WrongPassword",
			setupAuth: func(r *http.Request) {
				r.SetBasicAuth(test.Sarah, "BAD-PASSWORD")
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      domain.ErrUnauthenticated.Error(),
			wantChallenge:  true,
		},
		{
			name: "UnknownUser",
			setupAuth: func(r *http.Request) {
				r.SetBasicAuth("BAD-USER", test.SarahPassword)
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      domain.ErrUnauthenticated.Error(),
			wantChallenge:  true,
		},
		{
			name: "NonOwnerForbidden",
			setupAuth: func(r *http.Request) {
				r.SetBasicAuth(test.Hank, test.HankPassword)
			},
			wantStatusCode: http.StatusForbidden,
			wantError:      domain.ErrForbidden.Error(),
		},
		{
			name: "OK",
			setupAuth: func(r *http.Request) {
				r.SetBasicAuth(test.Sarah, test.SarahPassword)
			},
			wantStatusCode: http.StatusOK,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			server := gin.New()

			var (
				gotIdentity domain.Identity
				gotOutcome  string
			)

			server.GET("/cashcards/:id",
				func(gctx *gin.Context) {
					gctx.Next()
					gotOutcome = gctx.GetString(AuthOutcomeKey)
				},
				Authenticate(authn),
				Authorize(policy),
				func(gctx *gin.Context) {
					gotIdentity, _ = IdentityFrom(gctx)
					gctx.JSON(http.StatusOK, gin.H{})
				},
			)

			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodGet, "/cashcards/99", nil)
			tc.setupAuth(request)

			server.ServeHTTP(recorder, request)

			if recorder.Code != tc.wantStatusCode {
				t.Fatalf("recorder.Code = %v, want %v", recorder.Code, tc.wantStatusCode)
			}

			gotChallenge := recorder.Header().Get("WWW-Authenticate")
			if tc.wantChallenge && gotChallenge != BasicRealm {
				t.Errorf("WWW-Authenticate = %q, want %q", gotChallenge, BasicRealm)
			}

			if !tc.wantChallenge && gotChallenge != "" {
				t.Errorf("WWW-Authenticate = %q, want empty", gotChallenge)
			}

			if tc.wantStatusCode == http.StatusOK {
				want := domain.Identity{Username: test.Sarah, Role: domain.RoleCardOwner}
				if gotIdentity != want {
					t.Errorf("IdentityFrom(gctx) = %+v, want %+v", gotIdentity, want)
				}

				if gotOutcome != OutcomeAllowed {
					t.Errorf("outcome = %q, want %q", gotOutcome, OutcomeAllowed)
				}

				return
			}

			var got web.JSONError
			if err := json.NewDecoder(recorder.Body).Decode(&got); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			if got.Error != tc.wantError {
				t.Errorf("got.Error = %v, want %v", got.Error, tc.wantError)
			}

			if gotOutcome != tc.wantError {
				t.Errorf("outcome = %q, want %q", gotOutcome, tc.wantError)
			}
		})
	}
}

func TestAuthenticateStoreFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := authnservice.NewMockStore(ctrl)
	store.EXPECT().
		Lookup(gomock.Any(), test.Sarah).
		Times(1).
		Return(domain.Credential{}, errorspkg.ErrInternal)

	authn, err := authnservice.New(store, testCost)
	if err != nil {
		t.Fatalf("authnservice.New returned error: %v", err)
	}

	server := gin.New()
	server.GET("/cashcards", Authenticate(authn), func(gctx *gin.Context) {
		t.Error("handler must not be reached")
	})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/cashcards", nil)
	request.SetBasicAuth(test.Sarah, test.SarahPassword)

	server.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusInternalServerError {
		t.Errorf("recorder.Code = %v, want %v", recorder.Code, http.StatusInternalServerError)
	}
}

func TestAuthorizeWithoutIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	server := gin.New()
	server.GET("/cashcards", Authorize(authzpolicy.RoleRestricted("/cashcards")), func(gctx *gin.Context) {
		t.Error("handler must not be reached")
	})

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/cashcards", nil))

	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("recorder.Code = %v, want %v", recorder.Code, http.StatusUnauthorized)
	}
}
