package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/tripatlas/api-go/utils"
)

// The create handler must reject bad payloads before touching persistence.
// The controller is wired with a nil DB here: any attempt to dispatch a
// query on an invalid payload would panic and fail the test.
func newCreateRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(string(utils.UserContextKey), &utils.UserClaims{UserID: 1})
	})
	ac := NewActivityController(nil)
	r.POST("/api/activities", ac.CreateActivity)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateActivityRejectsEmptyTitle(t *testing.T) {
	r := newCreateRouter()

	w := postJSON(r, "/api/activities", `{"title":"   ","location":{"lat":36.8,"lng":10.2}}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "title")
}

func TestCreateActivityRejectsMissingLocation(t *testing.T) {
	r := newCreateRouter()

	w := postJSON(r, "/api/activities", `{"title":"Sunrise Hike"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "location")
}

func TestCreateActivityRejectsPartialLocation(t *testing.T) {
	r := newCreateRouter()

	w := postJSON(r, "/api/activities", `{"title":"Sunrise Hike","location":{"lat":36.8}}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateActivityRejectsOutOfRangeLocation(t *testing.T) {
	r := newCreateRouter()

	w := postJSON(r, "/api/activities", `{"title":"Sunrise Hike","location":{"lat":95.0,"lng":10.2}}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "range")
}

func TestCreateActivityRejectsUnknownEnumValue(t *testing.T) {
	r := newCreateRouter()

	w := postJSON(r, "/api/activities", `{"title":"Sunrise Hike","location":{"lat":36.8,"lng":10.2},"budget":"lavish"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateActivityRejectsOversizedTagLists(t *testing.T) {
	r := newCreateRouter()

	tags := make([]string, 0, 33)
	for i := 0; i < 33; i++ {
		tags = append(tags, `"t"`)
	}
	body := `{"title":"Sunrise Hike","location":{"lat":36.8,"lng":10.2},"tags":[` + strings.Join(tags, ",") + `]}`

	w := postJSON(r, "/api/activities", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateActivityRejectsBadDateTime(t *testing.T) {
	r := newCreateRouter()

	w := postJSON(r, "/api/activities", `{"title":"Sunrise Hike","location":{"lat":36.8,"lng":10.2},"dateTime":"next tuesday"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "dateTime")
}

func TestCreateActivityRequiresAuthenticatedUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	ac := NewActivityController(nil)
	r.POST("/api/activities", ac.CreateActivity)

	w := postJSON(r, "/api/activities", `{"title":"Sunrise Hike","location":{"lat":36.8,"lng":10.2}}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
