package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLoginFlow(t *testing.T) {
	email := uniqueEmail("flow")

	registerResp := makeRequest("POST", "/register-patient", map[string]interface{}{
		"first_name":     "Nino",
		"last_name":      "Beridze",
		"email":          email,
		"password":       "s3cret!pass",
		"private_number": "01234567890",
	}, "")
	require.True(t, registerResp.IsSuccess(), "registration failed: %s", registerResp.Message)
	assert.Equal(t, http.StatusCreated, registerResp.Code)
	assert.NotEmpty(t, registerResp.GetString("token"))

	// Duplicate registration is rejected.
	dupResp := makeRequest("POST", "/register-patient", map[string]interface{}{
		"first_name":     "Nino",
		"last_name":      "Beridze",
		"email":          email,
		"password":       "s3cret!pass",
		"private_number": "01234567890",
	}, "")
	assert.Equal(t, http.StatusBadRequest, dupResp.Code)

	loginResp := makeRequest("POST", "/login", map[string]string{
		"email":    email,
		"password": "s3cret!pass",
	}, "")
	require.True(t, loginResp.IsSuccess(), "login failed: %s", loginResp.Message)
	assert.NotEmpty(t, loginResp.GetString("token"))

	profile, ok := loginResp.Data["profile"].(map[string]interface{})
	require.True(t, ok, "login response carries no profile")
	assert.Equal(t, email, profile["email"])
	assert.Equal(t, "Patient", profile["role"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	email := uniqueEmail("badcreds")

	registerResp := makeRequest("POST", "/register-patient", map[string]interface{}{
		"first_name":     "Nino",
		"last_name":      "Beridze",
		"email":          email,
		"password":       "s3cret!pass",
		"private_number": "01234567890",
	}, "")
	require.True(t, registerResp.IsSuccess(), "registration failed: %s", registerResp.Message)

	wrongPass := makeRequest("POST", "/login", map[string]string{
		"email":    email,
		"password": "wrong!pass1",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.Equal(t, "unauthenticated", wrongPass.Kind)

	unknown := makeRequest("POST", "/login", map[string]string{
		"email":    uniqueEmail("ghost"),
		"password": "s3cret!pass",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrongPass.Message, unknown.Message,
		"unknown email and wrong password must be indistinguishable")
}

func TestRegisterDoctorReturnsDetails(t *testing.T) {
	token, email, category := registerDoctor(t)
	assert.NotEmpty(t, token)

	loginResp := makeRequest("POST", "/login", map[string]string{
		"email":    email,
		"password": "s3cret!pass",
	}, "")
	require.True(t, loginResp.IsSuccess(), "login failed: %s", loginResp.Message)

	profile, ok := loginResp.Data["profile"].(map[string]interface{})
	require.True(t, ok, "login response carries no profile")
	assert.Equal(t, "Doctor", profile["role"])

	details, ok := profile["doctor_details"].(map[string]interface{})
	require.True(t, ok, "doctor profile carries no details")
	assert.Equal(t, category, details["category"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	noToken := makeRequest("GET", "/bookings", nil, "")
	assert.Equal(t, http.StatusUnauthorized, noToken.Code)

	badToken := makeRequest("GET", "/bookings", nil, "not-a-real-token")
	assert.Equal(t, http.StatusUnauthorized, badToken.Code)
}
