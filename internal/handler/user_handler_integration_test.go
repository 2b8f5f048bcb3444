package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/KaranVikas/mediumBlog/internal/handler"
	"github.com/KaranVikas/mediumBlog/internal/middleware"
	"github.com/KaranVikas/mediumBlog/internal/models"
	"github.com/KaranVikas/mediumBlog/internal/repository"
	"github.com/KaranVikas/mediumBlog/internal/service"
	"github.com/KaranVikas/mediumBlog/internal/testutil"
	"github.com/KaranVikas/mediumBlog/internal/utils"
	"github.com/KaranVikas/mediumBlog/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const userSuiteSecret = "test-secret-key"

// UserHandlerIntegrationTestSuite wires the full router the way
// cmd/server does: auth endpoints plus the protected user routes behind
// the authorization gate.
type UserHandlerIntegrationTestSuite struct {
	suite.Suite
	testDB *testutil.TestDatabase
	router *gin.Engine
}

func (s *UserHandlerIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	logger.Init(false)

	s.testDB = testutil.SetupTestDatabase(s.T())

	userRepo := repository.NewUserRepository(s.testDB.DB)
	authService := service.NewAuthService(userRepo, userSuiteSecret, 1*time.Hour)
	userService := service.NewUserService(userRepo)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	auth := middleware.NewAuthenticator(userRepo, userSuiteSecret)

	s.router = gin.New()
	s.router.POST("/api/auth/register", authHandler.Register)
	s.router.POST("/api/auth/login", authHandler.Login)

	users := s.router.Group("/api/users")
	users.Use(auth.Authenticate())
	{
		users.GET("/me", userHandler.Me)
		users.PATCH("/me", userHandler.UpdateMe)

		users.GET("", auth.RequireRole(models.RoleAdmin), userHandler.ListUsers)
		users.GET("/:id", auth.RequireRole(models.RoleAdmin), userHandler.GetUser)
		users.PATCH("/:id", auth.RequireRole(models.RoleAdmin), userHandler.UpdateUser)
		users.DELETE("/:id", auth.RequireRole(models.RoleSuperAdmin), userHandler.DeleteUser)
	}
}

func (s *UserHandlerIntegrationTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
}

func (s *UserHandlerIntegrationTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)
}

// seedUser inserts a fixture user and returns it alongside a fresh token.
func (s *UserHandlerIntegrationTestSuite) seedUser(username, email string, role models.Role) (*testutil.TestUser, string) {
	user, err := testutil.CreateTestUser(username, email, "Password123", role)
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.testDB.DB.Create(user).Error)

	token, err := utils.GenerateToken(testutil.MustParseUUID(user.ID), userSuiteSecret, 1*time.Hour)
	require.NoError(s.T(), err)

	return user, token
}

func (s *UserHandlerIntegrationTestSuite) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		buf = bytes.NewBuffer(bodyBytes)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

// TestRegisterLoginMe covers the whole happy path: register, login with
// the new credentials, then fetch the own record with the issued token.
func (s *UserHandlerIntegrationTestSuite) TestRegisterLoginMe() {
	w := s.request(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice",
		"email":    "a@x.com",
		"password": "AlicePass123",
	})
	require.Equal(s.T(), http.StatusCreated, w.Code)

	w = s.request(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "AlicePass123",
	})
	require.Equal(s.T(), http.StatusOK, w.Code)
	token := decodeBody(s.T(), w)["access_token"].(string)
	require.NotEmpty(s.T(), token)

	w = s.request(http.MethodGet, "/api/users/me", token, nil)
	require.Equal(s.T(), http.StatusOK, w.Code)

	me := decodeBody(s.T(), w)
	assert.Equal(s.T(), "alice", me["username"])
	assert.Equal(s.T(), "a@x.com", me["email"])
	assert.Equal(s.T(), "user", me["role"])
	assert.Equal(s.T(), false, me["is_verified"])
}

func (s *UserHandlerIntegrationTestSuite) TestMeWithoutToken() {
	w := s.request(http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
}

func (s *UserHandlerIntegrationTestSuite) TestUpdateMe() {
	_, token := s.seedUser("bob", "bob@example.com", models.RoleUser)

	w := s.request(http.MethodPatch, "/api/users/me", token, map[string]string{
		"full_name": "Bob Builder",
	})

	require.Equal(s.T(), http.StatusOK, w.Code)
	me := decodeBody(s.T(), w)
	assert.Equal(s.T(), "Bob Builder", me["full_name"])
	assert.Equal(s.T(), "bob@example.com", me["email"])
}

func (s *UserHandlerIntegrationTestSuite) TestUpdateMeEmailConflict() {
	s.seedUser("first", "first@example.com", models.RoleUser)
	_, token := s.seedUser("second", "second@example.com", models.RoleUser)

	w := s.request(http.MethodPatch, "/api/users/me", token, map[string]string{
		"email": "first@example.com",
	})

	assert.Equal(s.T(), http.StatusConflict, w.Code)
}

func (s *UserHandlerIntegrationTestSuite) TestGetUserRequiresAdmin() {
	target, _ := s.seedUser("target", "target@example.com", models.RoleUser)

	_, userToken := s.seedUser("plain", "plain@example.com", models.RoleUser)
	w := s.request(http.MethodGet, "/api/users/"+target.ID, userToken, nil)
	assert.Equal(s.T(), http.StatusForbidden, w.Code)

	_, authorToken := s.seedUser("writer", "writer@example.com", models.RoleAuthor)
	w = s.request(http.MethodGet, "/api/users/"+target.ID, authorToken, nil)
	assert.Equal(s.T(), http.StatusForbidden, w.Code)

	_, adminToken := s.seedUser("boss", "boss@example.com", models.RoleAdmin)
	w = s.request(http.MethodGet, "/api/users/"+target.ID, adminToken, nil)
	require.Equal(s.T(), http.StatusOK, w.Code)
	assert.Equal(s.T(), "target", decodeBody(s.T(), w)["username"])
}

func (s *UserHandlerIntegrationTestSuite) TestGetUserNotFound() {
	_, adminToken := s.seedUser("boss", "boss@example.com", models.RoleAdmin)

	w := s.request(http.MethodGet, "/api/users/00000000-0000-0000-0000-000000000001", adminToken, nil)
	assert.Equal(s.T(), http.StatusNotFound, w.Code)
}

func (s *UserHandlerIntegrationTestSuite) TestGetUserBadID() {
	_, adminToken := s.seedUser("boss", "boss@example.com", models.RoleAdmin)

	w := s.request(http.MethodGet, "/api/users/not-a-uuid", adminToken, nil)
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *UserHandlerIntegrationTestSuite) TestListUsersAsAdmin() {
	s.seedUser("u1", "u1@example.com", models.RoleUser)
	_, adminToken := s.seedUser("boss", "boss@example.com", models.RoleAdmin)

	w := s.request(http.MethodGet, "/api/users", adminToken, nil)
	require.Equal(s.T(), http.StatusOK, w.Code)

	users := decodeBody(s.T(), w)["users"].([]interface{})
	assert.Len(s.T(), users, 2)
}

func (s *UserHandlerIntegrationTestSuite) TestAdminUpdatesRole() {
	target, _ := s.seedUser("promoted", "promoted@example.com", models.RoleUser)
	_, adminToken := s.seedUser("boss", "boss@example.com", models.RoleAdmin)

	w := s.request(http.MethodPatch, "/api/users/"+target.ID, adminToken, map[string]string{
		"role": "author",
	})

	require.Equal(s.T(), http.StatusOK, w.Code)
	assert.Equal(s.T(), "author", decodeBody(s.T(), w)["role"])
}

func (s *UserHandlerIntegrationTestSuite) TestAdminUpdatesUnknownRole() {
	target, _ := s.seedUser("victim", "victim@example.com", models.RoleUser)
	_, adminToken := s.seedUser("boss", "boss@example.com", models.RoleAdmin)

	w := s.request(http.MethodPatch, "/api/users/"+target.ID, adminToken, map[string]string{
		"role": "moderator",
	})

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *UserHandlerIntegrationTestSuite) TestDeleteRequiresSuperAdmin() {
	target, _ := s.seedUser("doomed", "doomed@example.com", models.RoleUser)

	// Admin satisfies the admin routes, but not delete
	_, adminToken := s.seedUser("boss", "boss@example.com", models.RoleAdmin)
	w := s.request(http.MethodDelete, "/api/users/"+target.ID, adminToken, nil)
	assert.Equal(s.T(), http.StatusForbidden, w.Code)

	_, superToken := s.seedUser("root", "root@example.com", models.RoleSuperAdmin)
	w = s.request(http.MethodDelete, "/api/users/"+target.ID, superToken, nil)
	require.Equal(s.T(), http.StatusOK, w.Code)
	assert.Equal(s.T(), "User deleted successfully", decodeBody(s.T(), w)["message"])

	// Gone for real
	w = s.request(http.MethodGet, "/api/users/"+target.ID, superToken, nil)
	assert.Equal(s.T(), http.StatusNotFound, w.Code)
}

func (s *UserHandlerIntegrationTestSuite) TestDeletedUserTokenStopsWorking() {
	target, targetToken := s.seedUser("ghost", "ghost@example.com", models.RoleUser)
	_, superToken := s.seedUser("root", "root@example.com", models.RoleSuperAdmin)

	w := s.request(http.MethodDelete, "/api/users/"+target.ID, superToken, nil)
	require.Equal(s.T(), http.StatusOK, w.Code)

	// The token still has a valid signature, but the subject is gone:
	// the gate rejects it as bad credentials
	w = s.request(http.MethodGet, "/api/users/me", targetToken, nil)
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
}

func (s *UserHandlerIntegrationTestSuite) TestExpiredTokenDistinctMessage() {
	user, _ := s.seedUser("sleepy", "sleepy@example.com", models.RoleUser)

	expired, err := utils.GenerateToken(testutil.MustParseUUID(user.ID), userSuiteSecret, -1*time.Minute)
	require.NoError(s.T(), err)

	w := s.request(http.MethodGet, "/api/users/me", expired, nil)

	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
	assert.Contains(s.T(), decodeBody(s.T(), w)["error"], "token has expired")
}

func TestUserHandlerIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UserHandlerIntegrationTestSuite))
}
