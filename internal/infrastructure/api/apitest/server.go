// Package apitest runs an in-memory stand-in for the Orphan Care REST API.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Faseeh100/orphancare-web/internal/domain/entities/content"
)

// AdminToken is accepted by /auth/validate and every admin endpoint
const AdminToken = "admin-token"

// Recorded is one request the fake received
type Recorded struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// Server is a fake API. State is changed between requests through
// Configure and the Set methods.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	nextID   int
	programs []content.Program
	services []content.Service
	images   []content.GalleryImage
	stats    []content.Stat
	users    []content.AdminUser
	contacts []map[string]string
	requests []Recorded

	validateStatus int
	failPath       string
	malformed      bool
	delay          time.Duration
}

// SetDelay holds every response for d before answering
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	s.delay = d
	s.mu.Unlock()
}

// SetValidateStatus overrides the /auth/validate status; 0 restores normal behaviour
func (s *Server) SetValidateStatus(status int) {
	s.mu.Lock()
	s.validateStatus = status
	s.mu.Unlock()
}

// SetFailPath makes every request to path answer 500
func (s *Server) SetFailPath(path string) {
	s.mu.Lock()
	s.failPath = path
	s.mu.Unlock()
}

// SetMalformed makes list endpoints answer 200 without their payload field
func (s *Server) SetMalformed(malformed bool) {
	s.mu.Lock()
	s.malformed = malformed
	s.mu.Unlock()
}

func init() {
	gin.SetMode(gin.TestMode)
}

// New starts the fake with the four stats and one administrator
func New() *Server {
	s := &Server{
		nextID: 100,
		stats: []content.Stat{
			{Key: content.StatChildrenHelped, Value: "120", Label: "Children Helped"},
			{Key: content.StatVolunteers, Value: "45", Label: "Volunteers"},
			{Key: content.StatShelterHomes, Value: "7", Label: "Shelter Homes"},
			{Key: content.StatYearsService, Value: "12", Label: "Years of Service"},
		},
		users: []content.AdminUser{
			{ID: "1", Name: "Amina Yusuf", Email: "amina@example.org", CreatedAt: "2024-01-02T10:00:00Z"},
		},
	}
	s.Server = httptest.NewServer(s.router())
	return s
}

// BaseURL returns the API base URL including the /api prefix
func (s *Server) BaseURL() string { return s.Server.URL + "/api" }

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(s.record)

	g := r.Group("/api")
	g.GET("/programs", s.listPrograms(true))
	g.GET("/programs/admin", s.listPrograms(false))
	g.GET("/programs/admin/:id", s.getProgram)
	g.POST("/programs/admin", s.authorized, s.createProgram)
	g.PUT("/programs/admin/:id", s.authorized, s.updateProgram)
	g.DELETE("/programs/admin/:id", s.authorized, s.deleteProgram)

	g.GET("/services", s.listServices)
	g.GET("/services/:id", s.getService)
	g.POST("/services", s.authorized, s.createService)
	g.PUT("/services/:id", s.authorized, s.updateService)
	g.DELETE("/services/:id", s.authorized, s.deleteService)
	g.PATCH("/services/:id/toggle-status", s.authorized, s.toggleService)

	g.GET("/images", s.listImages)
	g.POST("/images/upload", s.authorized, s.uploadImage)
	g.DELETE("/images/:id", s.authorized, s.deleteImage)

	g.GET("/stats", s.listStats)
	g.PUT("/stats", s.authorized, s.updateStats)

	g.POST("/users/register", s.register)
	g.POST("/users/login", s.login)
	g.POST("/users/simple-reset-password", s.resetPassword)
	g.GET("/users/all", s.authorized, s.listUsers)
	g.GET("/users/:id", s.authorized, s.getUser)
	g.PUT("/users/:id", s.authorized, s.updateUser)
	g.POST("/users/:id/profile-image", s.authorized, s.uploadProfileImage)
	g.DELETE("/users/:id", s.authorized, s.deleteUser)

	g.POST("/contact/submit", s.submitContact)
	g.GET("/auth/validate", s.validate)
	return r
}

func (s *Server) record(c *gin.Context) {
	var body []byte
	if c.Request.Body != nil && c.ContentType() == "application/json" {
		body, _ = io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
	}
	s.mu.Lock()
	s.requests = append(s.requests, Recorded{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Header: c.Request.Header.Clone(),
		Body:   body,
	})
	fail := s.failPath != "" && s.failPath == c.Request.URL.Path
	delay := s.delay
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	if fail {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal error"})
		return
	}
	c.Next()
}

func (s *Server) authorized(c *gin.Context) {
	if c.GetHeader("Authorization") != "Bearer "+AdminToken {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized"})
	}
}

// Requests returns a copy of everything received so far
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

// CountRequests counts requests matching method and path
func (s *Server) CountRequests(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Configure runs fn with the fake's state locked
func (s *Server) Configure(fn func(st *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := &State{
		Programs: s.programs, Services: s.services, Images: s.images,
		Stats: s.stats, Users: s.users,
	}
	fn(st)
	s.programs, s.services, s.images = st.Programs, st.Services, st.Images
	s.stats, s.users = st.Stats, st.Users
}

// State is the mutable content of the fake
type State struct {
	Programs []content.Program
	Services []content.Service
	Images   []content.GalleryImage
	Stats    []content.Stat
	Users    []content.AdminUser
}

// Snapshot returns a copy of the current state
func (s *Server) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Programs: append([]content.Program(nil), s.programs...),
		Services: append([]content.Service(nil), s.services...),
		Images:   append([]content.GalleryImage(nil), s.images...),
		Stats:    append([]content.Stat(nil), s.stats...),
		Users:    append([]content.AdminUser(nil), s.users...),
	}
}

// Contacts returns the contact messages received
func (s *Server) Contacts() []map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]string(nil), s.contacts...)
}

func (s *Server) newID() int {
	s.nextID++
	return s.nextID
}

func (s *Server) listPrograms(activeOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.malformed {
			c.JSON(http.StatusOK, gin.H{"success": true})
			return
		}
		out := make([]content.Program, 0, len(s.programs))
		for _, p := range s.programs {
			if !activeOnly || p.IsActive {
				out = append(out, p)
			}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": out})
	}
}

func (s *Server) getProgram(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.programs {
		if p.ID.String() == c.Param("id") {
			c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Program not found"})
}

func (s *Server) createProgram(c *gin.Context) {
	var p content.Program
	if err := c.ShouldBindJSON(&p); err != nil || p.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Title is required"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = content.ID(strconv.Itoa(s.newID()))
	s.programs = append(s.programs, p)
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Program created", "data": p})
}

func (s *Server) updateProgram(c *gin.Context) {
	var p content.Program
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.programs {
		if s.programs[i].ID.String() == c.Param("id") {
			p.ID = s.programs[i].ID
			s.programs[i] = p
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Program updated", "data": p})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Program not found"})
}

func (s *Server) deleteProgram(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.programs {
		if s.programs[i].ID.String() == c.Param("id") {
			s.programs = append(s.programs[:i], s.programs[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Program deleted"})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Program not found"})
}

func (s *Server) listServices(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.malformed {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "services": append([]content.Service{}, s.services...)})
}

func (s *Server) getService(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, svc := range s.services {
		if svc.ID.String() == c.Param("id") {
			c.JSON(http.StatusOK, gin.H{"success": true, "service": svc})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Service not found"})
}

func (s *Server) createService(c *gin.Context) {
	var svc content.Service
	if err := c.ShouldBindJSON(&svc); err != nil || svc.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Name is required"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	svc.ID = content.ID("svc-" + strconv.Itoa(s.newID()))
	svc.CreatedAt = "2025-03-01T09:00:00Z"
	s.services = append(s.services, svc)
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Service created", "service": svc})
}

func (s *Server) updateService(c *gin.Context) {
	var svc content.Service
	if err := c.ShouldBindJSON(&svc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.services {
		if s.services[i].ID.String() == c.Param("id") {
			svc.ID, svc.CreatedAt = s.services[i].ID, s.services[i].CreatedAt
			s.services[i] = svc
			c.JSON(http.StatusOK, gin.H{"success": true, "service": svc})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Service not found"})
}

func (s *Server) deleteService(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.services {
		if s.services[i].ID.String() == c.Param("id") {
			s.services = append(s.services[:i], s.services[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Service deleted"})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Service not found"})
}

func (s *Server) toggleService(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.services {
		if s.services[i].ID.String() == c.Param("id") {
			s.services[i].IsActive = !s.services[i].IsActive
			c.JSON(http.StatusOK, gin.H{"success": true, "service": s.services[i]})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Service not found"})
}

func (s *Server) listImages(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.malformed {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": append([]content.GalleryImage{}, s.images...)})
}

func (s *Server) uploadImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No image uploaded"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.newID()
	img := content.GalleryImage{
		ID:           content.ID(strconv.Itoa(id)),
		Filename:     "img-" + strconv.Itoa(id) + "-" + fh.Filename,
		OriginalName: fh.Filename,
		FilePath:     "/uploads/img-" + strconv.Itoa(id) + "-" + fh.Filename,
		Description:  c.PostForm("description"),
		AltText:      c.PostForm("altText"),
		Category:     c.PostForm("category"),
		Size:         fh.Size,
		MimeType:     fh.Header.Get("Content-Type"),
		IsPublished:  true,
		CreatedAt:    "2025-03-01T09:00:00Z",
	}
	s.images = append([]content.GalleryImage{img}, s.images...)
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Image uploaded", "data": img})
}

func (s *Server) deleteImage(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.images {
		if s.images[i].ID.String() == c.Param("id") {
			s.images = append(s.images[:i], s.images[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Image deleted"})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Image not found"})
}

func (s *Server) listStats(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"success": true, "data": append([]content.Stat{}, s.stats...)})
}

func (s *Server) updateStats(c *gin.Context) {
	var stats []content.Stat
	if err := c.ShouldBindJSON(&stats); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid statistics"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, in := range stats {
		replaced := false
		for i := range s.stats {
			if s.stats[i].Key == in.Key {
				s.stats[i] = in
				replaced = true
			}
		}
		if !replaced {
			s.stats = append(s.stats, in)
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Statistics updated", "data": s.stats})
}

func (s *Server) register(c *gin.Context) {
	var body struct{ Name, Email, Password string }
	if err := c.ShouldBindJSON(&body); err != nil || body.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid registration"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == body.Email {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "User already exists"})
			return
		}
	}
	u := content.AdminUser{ID: content.ID(strconv.Itoa(s.newID())), Name: body.Name, Email: body.Email}
	s.users = append(s.users, u)
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Registration successful", "token": AdminToken, "user": u})
}

func (s *Server) login(c *gin.Context) {
	var body struct{ Email, Password string }
	_ = c.ShouldBindJSON(&body)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == body.Email && body.Password == "correct-horse" {
			c.JSON(http.StatusOK, gin.H{"success": true, "token": AdminToken, "user": u})
			return
		}
	}
	c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password"})
}

func (s *Server) resetPassword(c *gin.Context) {
	var body struct {
		Email       string `json:"email"`
		NewPassword string `json:"newPassword"`
	}
	_ = c.ShouldBindJSON(&body)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == body.Email {
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password reset successfully"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": false, "message": "No account found with that email"})
}

func (s *Server) listUsers(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"success": true, "users": append([]content.AdminUser{}, s.users...)})
}

func (s *Server) getUser(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID.String() == c.Param("id") {
			c.JSON(http.StatusOK, gin.H{"success": true, "user": u})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Administrator not found"})
}

func (s *Server) updateUser(c *gin.Context) {
	var body struct {
		Name         string  `json:"name"`
		Email        string  `json:"email"`
		ProfileImage *string `json:"profileImage"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID.String() == c.Param("id") {
			s.users[i].Name, s.users[i].Email = body.Name, body.Email
			if body.ProfileImage != nil {
				s.users[i].ProfileImage = *body.ProfileImage
			}
			c.JSON(http.StatusOK, gin.H{"success": true, "user": s.users[i]})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Administrator not found"})
}

func (s *Server) uploadProfileImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No image uploaded"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID.String() == c.Param("id") {
			// the API stores the path immediately; the follow-up PUT may repeat it
			s.users[i].ProfileImage = "/uploads/profiles/" + fh.Filename
			c.JSON(http.StatusOK, gin.H{"success": true, "user": s.users[i]})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Administrator not found"})
}

func (s *Server) deleteUser(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID.String() == c.Param("id") {
			s.users = append(s.users[:i], s.users[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Administrator deleted"})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Administrator not found"})
}

func (s *Server) submitContact(c *gin.Context) {
	var body map[string]string
	if err := json.NewDecoder(c.Request.Body).Decode(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid message"})
		return
	}
	s.mu.Lock()
	s.contacts = append(s.contacts, body)
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Thank you! Your message has been sent."})
}

func (s *Server) validate(c *gin.Context) {
	s.mu.Lock()
	status := s.validateStatus
	s.mu.Unlock()
	if status != 0 {
		c.JSON(status, gin.H{"success": status < 300})
		return
	}
	if c.GetHeader("Authorization") != "Bearer "+AdminToken {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
