package mux

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_authRouter(t *testing.T) {
	ts := newTestServer(t)

	ts.mux.authRouter.Path("/test").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, "OK")
	})

	var errObj errorResponse
	assertGet(t, ts.Server, "/test", &errObj, 401)
	assert.Equal(t, "Unauthorized", errObj.Message)

	assertGet(t, ts.Server, "/test", &errObj, 401, "not-a-token")

	signed := token(t, 42)

	// test using auth header
	var str string
	resp := assertGetWithResp(t, ts.Server, "/test", &str, 200, signed)
	assert.Equal(t, "OK", str)
	assert.Equal(t, "42", resp.Header.Get("Liars-PlayerID"))

	// test using query parameter
	resp = assertGetWithResp(t, ts.Server, "/test?access_token="+url.QueryEscape(signed), &str, 200)
	assert.Equal(t, "OK", str)
	assert.Equal(t, "42", resp.Header.Get("Liars-PlayerID"))
}
