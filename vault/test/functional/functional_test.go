package functional

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/nottyhq/notty/lib/errors"
	"github.com/nottyhq/notty/lib/svc"
	"github.com/nottyhq/notty/vault/test"
	"github.com/stretchr/testify/assert"
)

// postFormUnauthenticated posts a form to the test vault without credentials.
func postFormUnauthenticated(
	v *test.Vault,
	path string,
	params url.Values,
) (*http.Response, error) {
	return http.Post(v.Server.URL+path,
		"application/x-www-form-urlencoded",
		strings.NewReader(params.Encode()))
}

// extractError extracts and asserts the error code of a response.
func extractError(
	t *testing.T,
	raw svc.Resp,
	code string,
) {
	var e errors.ConcreteUserError
	err := raw.Extract("error", &e)
	assert.Nil(t, err)
	assert.Equal(t, code, e.Code)
}
