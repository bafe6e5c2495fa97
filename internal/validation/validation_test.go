package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"authenticate-me/internal/model"
)

func TestLogin(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		req  model.LoginRequest
		want []string
	}{
		{"valid", model.LoginRequest{Credential: "Demo-lition", Password: "password"}, nil},
		{"empty credential", model.LoginRequest{Password: "password"}, []string{"Please provide a valid email or username."}},
		{"empty password", model.LoginRequest{Credential: "Demo-lition"}, []string{"Please provide a password"}},
		{"both empty", model.LoginRequest{}, []string{
			"Please provide a valid email or username.",
			"Please provide a password",
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, Login(tc.req))
		})
	}
}

func TestSignup(t *testing.T) {
	t.Parallel()

	valid := model.SignupRequest{Email: "spidey@spider.man", Username: "Spidey", Password: "password"}

	cases := []struct {
		name   string
		mutate func(*model.SignupRequest)
		want   []string
	}{
		{"valid", func(*model.SignupRequest) {}, nil},
		{"empty email", func(r *model.SignupRequest) { r.Email = "" }, []string{"Please provide a valid email."}},
		{"email without at", func(r *model.SignupRequest) { r.Email = "spider.man" }, []string{"Please provide a valid email."}},
		{"empty username", func(r *model.SignupRequest) { r.Username = "" }, []string{"Please provide a username with at least 4 characters."}},
		{"short username", func(r *model.SignupRequest) { r.Username = "Spi" }, []string{"Please provide a username with at least 4 characters."}},
		{"username is email", func(r *model.SignupRequest) { r.Username = "peter@parker.io" }, []string{"Username cannot be an email."}},
		{"empty password", func(r *model.SignupRequest) { r.Password = "" }, []string{"Password must be 6 characters or more."}},
		{"short password", func(r *model.SignupRequest) { r.Password = "12345" }, []string{"Password must be 6 characters or more."}},
		{"everything wrong", func(r *model.SignupRequest) {
			r.Email = "not-an-email"
			r.Username = "a@b.co"
			r.Password = "123"
		}, []string{
			"Please provide a valid email.",
			"Username cannot be an email.",
			"Password must be 6 characters or more.",
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := valid
			tc.mutate(&req)
			require.Equal(t, tc.want, Signup(req))
		})
	}
}

func TestUserRecord(t *testing.T) {
	t.Parallel()

	hash := strings.Repeat("x", 60)

	require.Empty(t, UserRecord("Spidey", "spidey@spider.man", hash))

	got := UserRecord(strings.Repeat("s", 31), "x@", hash[:59])
	require.Equal(t, []FieldError{
		{Field: "username", Message: "Validation len on username failed"},
		{Field: "email", Message: "Validation len on email failed"},
		{Field: "hashedPassword", Message: "Validation len on hashedPassword failed"},
	}, got)

	require.Equal(t, []FieldError{{Field: "username", Message: "Cannot be an email."}},
		UserRecord("peter@parker.io", "peter@parker.io", hash))
	require.Equal(t, []FieldError{{Field: "email", Message: "Validation isEmail on email failed"}},
		UserRecord("Spidey", "spidey", hash))
}

func TestIsEmail(t *testing.T) {
	t.Parallel()

	require.True(t, IsEmail("demo@user.io"))
	require.False(t, IsEmail("Demo-lition"))
	require.False(t, IsEmail(""))
}

func TestMessagesFallback(t *testing.T) {
	t.Parallel()

	type sample struct {
		Name string `json:"name" validate:"required"`
	}

	require.Equal(t, []string{"Invalid value for name."}, Struct(sample{}, Messages{}))
}
