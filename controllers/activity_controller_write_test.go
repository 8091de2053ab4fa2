package controllers

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tripatlas/api-go/utils"
)

// Write-path tests run the handlers against a mocked connection: every
// statement the handler issues must be expected, so a forbidden write shows
// up as an unmet-expectations failure.
func newMockedRouter(t *testing.T, viewerID uint) (*gin.Engine, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(string(utils.UserContextKey), &utils.UserClaims{UserID: viewerID})
	})
	ac := NewActivityController(gdb)
	r.POST("/api/activities", ac.CreateActivity)
	r.PATCH("/api/activities/:id/join", ac.JoinActivity)
	r.GET("/api/activities/markers", ac.GetMarkers)
	return r, mock
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func activityRow(id uint, hostID uint, participants string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "latitude", "longitude", "host_id", "participants"}).
		AddRow(id, "Sunrise Hike", 36.8, 10.2, hostID, participants)
}

func TestCreateActivityPersistsExactlyOnce(t *testing.T) {
	r, mock := newMockedRouter(t, 2)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "activities"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "audit_logs"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	w := doRequest(r, http.MethodPost, "/api/activities", `{"title":"Sunrise Hike","location":{"lat":36.8,"lng":10.2}}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Sunrise Hike"`)
	assert.Contains(t, w.Body.String(), `"latitude":36.8`)
	assert.Contains(t, w.Body.String(), `"longitude":10.2`)
	assert.Contains(t, w.Body.String(), `"hostId":2`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJoinActivityAppendsParticipant(t *testing.T) {
	r, mock := newMockedRouter(t, 2)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "activities"`)).
		WillReturnRows(activityRow(5, 1, "{}"))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "activities"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "audit_logs"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	w := doRequest(r, http.MethodPatch, "/api/activities/5/join", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"joined":true`)
	assert.Contains(t, w.Body.String(), `"participants":[2]`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJoinActivityTwiceLeavesParticipantsUnchanged(t *testing.T) {
	r, mock := newMockedRouter(t, 2)

	// viewer 2 is already a participant: no transaction, no update
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "activities"`)).
		WillReturnRows(activityRow(5, 1, "{2}"))

	w := doRequest(r, http.MethodPatch, "/api/activities/5/join", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"joined":false`)
	assert.Contains(t, w.Body.String(), `"participants":[2]`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJoinActivityAsHostNeverInsertsHost(t *testing.T) {
	r, mock := newMockedRouter(t, 2)

	// viewer 2 hosts the activity: host status derives from host_id, the
	// participant set stays empty
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "activities"`)).
		WillReturnRows(activityRow(5, 2, "{}"))

	w := doRequest(r, http.MethodPatch, "/api/activities/5/join", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"joined":false`)
	assert.Contains(t, w.Body.String(), `"participants":[]`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMarkersAcceptsLegacyZoomLevelParam(t *testing.T) {
	r, mock := newMockedRouter(t, 2)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "activities"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := doRequest(r, http.MethodGet, "/api/activities/markers?zoomLevel=13", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"zoom":13`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMarkersRejectsMalformedMineWithoutLegacyFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(string(utils.UserContextKey), &utils.UserClaims{UserID: 2})
	})
	ac := NewActivityController(nil)
	r.GET("/api/activities/markers", ac.GetMarkers)

	w := doRequest(r, http.MethodGet, "/api/activities/markers?zoom=13&mine=notabool", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotContains(t, w.Body.String(), "zoom must be between 1 and 20")
}
