package testing

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
)

const AdminToken = "secret"

// AdminHeaders carries the admin token expected by AdminAuthMiddleware.
var AdminHeaders = map[string]string{"x-admin-token": AdminToken}

// PerformRequest sends a JSON request through the router and records the response.
func PerformRequest(router *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	switch b := body.(type) {
	case nil:
		reqBody = &bytes.Buffer{}
	case string:
		reqBody = bytes.NewBufferString(b)
	default:
		jsonBytes, err := json.Marshal(b)
		if err != nil {
			panic("failed to marshal request body: " + err.Error())
		}
		reqBody = bytes.NewBuffer(jsonBytes)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

// Decode unmarshals a recorded JSON body into a fresh T.
func Decode[T any](res *httptest.ResponseRecorder) (T, error) {
	var out T
	err := json.Unmarshal(res.Body.Bytes(), &out)
	return out, err
}
