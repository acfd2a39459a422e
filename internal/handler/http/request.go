package http

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/besti-sekretariat/besti-backend-go/internal/handler/http/response"
	"github.com/besti-sekretariat/besti-backend-go/internal/pkg/jwt"
)

const maxMultipartMemory = 10 << 20 // 10MB

// currentClaims reads the caller's identity. AuthRequired has already
// rejected requests without one, so a failure here is answered with 401.
func currentClaims(w http.ResponseWriter, r *http.Request) (jwt.Claims, bool) {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return jwt.Claims{}, false
	}
	return claims, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

// multipartPayload is the `data` JSON field plus the `photo` file of an
// attendance form. The caller closes File.
type multipartPayload struct {
	File   multipart.File
	Header *multipart.FileHeader
}

func parseAttendanceForm(w http.ResponseWriter, r *http.Request, dst interface{}) (multipartPayload, bool) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		response.BadRequest(w, "Failed to parse form data", nil)
		return multipartPayload{}, false
	}

	dataJSON := r.FormValue("data")
	if dataJSON == "" {
		response.BadRequest(w, "Field 'data' is required", nil)
		return multipartPayload{}, false
	}
	if err := json.Unmarshal([]byte(dataJSON), dst); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return multipartPayload{}, false
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			response.ValidationError(w, map[string]string{"photo": "attendance proof photo is required"})
			return multipartPayload{}, false
		}
		response.BadRequest(w, "Invalid file upload", nil)
		return multipartPayload{}, false
	}
	return multipartPayload{File: file, Header: header}, true
}
