// Package apitest runs an in-process fake of the Secret Santa backend for
// integration tests. It implements just enough of the REST contract for
// the facades and stores to be exercised end to end; its trivial
// rotation pairing is test scaffolding, not an assignment engine.
package apitest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"santactl/internal/model"
)

type userRecord struct {
	user     model.User
	password string
	otp      string
}

// Server is a fake backend bound to an ephemeral port.
type Server struct {
	// URL is the base URL tests point the transport at.
	URL string

	echo *echo.Echo
	ts   *httptest.Server

	mu       sync.Mutex
	users    map[string]*userRecord // keyed by email
	tokens   map[string]string     // token -> email
	invites  map[string]model.User // invitation token -> pending user
	events   map[string]*model.Event
	requests map[string]int // "METHOD /path" -> count
}

// NewServer starts the fake backend.
func NewServer() *Server {
	s := &Server{
		users:    make(map[string]*userRecord),
		tokens:   make(map[string]string),
		invites:  make(map[string]model.User),
		events:   make(map[string]*model.Event),
		requests: make(map[string]int),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(s.countRequests)

	e.POST("/auth/register", s.register)
	e.POST("/auth/verify-otp", s.verifyOTP)
	e.POST("/auth/login", s.login)
	e.POST("/auth/invite", s.invite, s.requireAuth)
	e.POST("/auth/verify", s.verifyInvitation)
	e.GET("/auth/verify-token", s.verifyToken, s.requireAuth)

	e.GET("/events", s.listEvents, s.requireAuth)
	e.POST("/events", s.createEvent, s.requireAuth)
	e.GET("/events/:id", s.getEvent, s.requireAuth)
	e.PUT("/events/:id", s.updateEvent, s.requireAuth, s.requireOwner)
	e.DELETE("/events/:id", s.deleteEvent, s.requireAuth, s.requireOwner)

	e.GET("/events/:id/participants", s.listParticipants, s.requireAuth)
	e.POST("/events/:id/participants", s.addParticipant, s.requireAuth, s.requireOwner)
	e.PUT("/events/:id/participants/:pid", s.updateParticipant, s.requireAuth, s.requireOwner)
	e.DELETE("/events/:id/participants/:pid", s.deleteParticipant, s.requireAuth, s.requireOwner)

	e.GET("/events/:id/rules", s.getRules, s.requireAuth)
	e.PUT("/events/:id/rules", s.updateRules, s.requireAuth, s.requireOwner)

	e.GET("/events/:id/assignments", s.getAssignments, s.requireAuth)
	e.POST("/events/:id/assignments", s.generateAssignments, s.requireAuth, s.requireOwner)

	e.GET("/me/assignment", s.myAssignment, s.requireAuth)
	e.GET("/events/:id/my-info", s.myInfo, s.requireAuth)

	e.GET("/health", s.health)
	e.GET("/ready", s.health)

	e.GET("/admin/dashboard", s.adminDashboard, s.requireAuth, s.requireAdmin)
	e.GET("/admin/events", s.adminEvents, s.requireAuth, s.requireAdmin)
	e.GET("/admin/users", s.adminUsers, s.requireAuth, s.requireAdmin)

	s.echo = e
	s.ts = httptest.NewServer(e)
	s.URL = s.ts.URL
	return s
}

// Close shuts the fake backend down.
func (s *Server) Close() {
	s.ts.Close()
}

// SeedUser registers a user with a known password.
func (s *Server) SeedUser(user model.User, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.Email] = &userRecord{user: user, password: password}
}

// SeedEvent installs an event directly into the fake's state.
func (s *Server) SeedEvent(event model.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := event
	s.events[event.ID] = &copied
}

// TokenFor mints a bearer token for a seeded user.
func (s *Server) TokenFor(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := "tok-" + uuid.NewString()
	s.tokens[token] = email
	return token
}

// Requests returns how many times "METHOD /path" was served.
func (s *Server) Requests(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[key]
}

func (s *Server) countRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		s.requests[c.Request().Method+" "+c.Request().URL.Path]++
		s.mu.Unlock()
		return next(c)
	}
}

func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid token"})
		}
		s.mu.Lock()
		email, found := s.tokens[token]
		var user model.User
		if found {
			user = s.users[email].user
		}
		s.mu.Unlock()
		if !found {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid or expired token"})
		}
		c.Set("user", user)
		return next(c)
	}
}

func (s *Server) requireOwner(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := c.Get("user").(model.User)
		if user.Role == model.RoleAdmin {
			return next(c)
		}
		s.mu.Lock()
		event, ok := s.events[c.Param("id")]
		s.mu.Unlock()
		if !ok {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Event not found"})
		}
		if event.OwnerID != user.ID {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "Access denied"})
		}
		return next(c)
	}
}

func (s *Server) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := c.Get("user").(model.User)
		if user.Role != model.RoleAdmin {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "Access denied"})
		}
		return next(c)
	}
}

func (s *Server) register(c echo.Context) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[req.Email]; exists {
		return c.JSON(http.StatusConflict, echo.Map{"error": "User already exists"})
	}
	user := model.User{
		ID:    uuid.NewString(),
		Email: req.Email,
		Name:  req.Name,
		Role:  model.RoleOrganizer,
	}
	s.users[req.Email] = &userRecord{user: user, password: req.Password, otp: "123456"}
	return c.JSON(http.StatusCreated, echo.Map{
		"user":                  user,
		"requires_verification": true,
		"message":               "verification code sent",
	})
}

func (s *Server) verifyOTP(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.users[req.Email]
	if !ok || record.otp != req.OTP {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "otp: invalid code"})
	}
	record.otp = ""
	record.user.EmailVerified = true
	token := "tok-" + uuid.NewString()
	s.tokens[token] = req.Email
	return c.JSON(http.StatusOK, echo.Map{
		"token":   token,
		"user":    record.user,
		"message": "account verified",
	})
}

func (s *Server) login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.users[req.Email]
	if !ok || record.password != req.Password {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
	}
	token := "tok-" + uuid.NewString()
	s.tokens[token] = req.Email
	return c.JSON(http.StatusOK, echo.Map{"token": token, "user": record.user})
}

func (s *Server) invite(c echo.Context) error {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		EventID string `json:"eventId"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	inviteToken := "inv-" + uuid.NewString()
	s.invites[inviteToken] = model.User{
		ID:    uuid.NewString(),
		Email: req.Email,
		Name:  req.Name,
		Role:  model.RoleParticipant,
	}
	return c.JSON(http.StatusOK, echo.Map{
		"invitationLink": s.URL + "/auth/verify?token=" + inviteToken,
	})
}

func (s *Server) verifyInvitation(c echo.Context) error {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	pending, ok := s.invites[req.Token]
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid or expired token"})
	}
	delete(s.invites, req.Token)
	pending.EmailVerified = true
	s.users[pending.Email] = &userRecord{user: pending, password: req.Password}
	token := "tok-" + uuid.NewString()
	s.tokens[token] = pending.Email
	return c.JSON(http.StatusOK, echo.Map{
		"token":   token,
		"user":    pending,
		"message": "invitation accepted",
	})
}

func (s *Server) verifyToken(c echo.Context) error {
	user := c.Get("user").(model.User)
	return c.JSON(http.StatusOK, echo.Map{
		"valid": true,
		"user":  echo.Map{"id": user.ID, "role": string(user.Role)},
	})
}

func (s *Server) listEvents(c echo.Context) error {
	user := c.Get("user").(model.User)
	s.mu.Lock()
	defer s.mu.Unlock()
	events := []model.Event{}
	for _, event := range s.events {
		if user.Role == model.RoleAdmin || event.OwnerID == user.ID || event.HasParticipant(user.Email) {
			events = append(events, *event)
		}
	}
	return c.JSON(http.StatusOK, events)
}

func (s *Server) createEvent(c echo.Context) error {
	user := c.Get("user").(model.User)
	if !user.Role.AtLeast(model.RoleOrganizer) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Access denied"})
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name: required"})
	}
	event := model.Event{
		ID:           uuid.NewString(),
		OwnerID:      user.ID,
		Name:         req.Name,
		Participants: []model.Participant{},
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	s.mu.Lock()
	s.events[event.ID] = &event
	s.mu.Unlock()
	return c.JSON(http.StatusCreated, event)
}

func (s *Server) getEvent(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[c.Param("id")]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Event not found"})
	}
	return c.JSON(http.StatusOK, event)
}

func (s *Server) updateEvent(c echo.Context) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	event := s.events[c.Param("id")]
	event.Name = req.Name
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) deleteEvent(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.events, c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listParticipants(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[c.Param("id")]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Event not found"})
	}
	return c.JSON(http.StatusOK, event.Participants)
}

func (s *Server) addParticipant(c echo.Context) error {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		GroupID string `json:"groupId"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	event := s.events[c.Param("id")]
	participant := model.Participant{
		ID:      uuid.NewString(),
		EventID: event.ID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		GroupID: req.GroupID,
	}
	event.Participants = append(event.Participants, participant)
	return c.JSON(http.StatusCreated, participant)
}

func (s *Server) updateParticipant(c echo.Context) error {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		GroupID string `json:"groupId"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	event := s.events[c.Param("id")]
	for i := range event.Participants {
		if event.Participants[i].ID == c.Param("pid") {
			event.Participants[i].Name = req.Name
			event.Participants[i].Email = req.Email
			event.Participants[i].Phone = req.Phone
			event.Participants[i].GroupID = req.GroupID
			return c.NoContent(http.StatusNoContent)
		}
	}
	return c.JSON(http.StatusNotFound, echo.Map{"error": "Participant not found"})
}

func (s *Server) deleteParticipant(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	event := s.events[c.Param("id")]
	for i := range event.Participants {
		if event.Participants[i].ID == c.Param("pid") {
			event.Participants = append(event.Participants[:i], event.Participants[i+1:]...)
			return c.NoContent(http.StatusNoContent)
		}
	}
	return c.JSON(http.StatusNotFound, echo.Map{"error": "Participant not found"})
}

func (s *Server) getRules(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[c.Param("id")]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Event not found"})
	}
	return c.JSON(http.StatusOK, event.Rules)
}

func (s *Server) updateRules(c echo.Context) error {
	var rules model.Rules
	if err := c.Bind(&rules); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[c.Param("id")].Rules = rules
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) getAssignments(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[c.Param("id")]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Event not found"})
	}
	return c.JSON(http.StatusOK, event.Assignments)
}

func (s *Server) generateAssignments(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	event := s.events[c.Param("id")]
	if len(event.Participants) < 2 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "participants: at least two required"})
	}
	assignments := make([]model.Assignment, len(event.Participants))
	for i, giver := range event.Participants {
		receiver := event.Participants[(i+1)%len(event.Participants)]
		assignments[i] = model.Assignment{GiverID: giver.ID, ReceiverID: receiver.ID}
	}
	event.Assignments = assignments
	event.AssignedAt = time.Now().UTC().Format(time.RFC3339)
	return c.JSON(http.StatusOK, echo.Map{
		"assignments": assignments,
		"emailsSent":  len(assignments),
		"message":     "assignments generated",
	})
}

func (s *Server) myAssignment(c echo.Context) error {
	user := c.Get("user").(model.User)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, event := range s.events {
		if len(event.Assignments) == 0 {
			continue
		}
		byID := make(map[string]model.Participant, len(event.Participants))
		var mine *model.Participant
		for i, p := range event.Participants {
			byID[p.ID] = p
			if p.Email == user.Email {
				mine = &event.Participants[i]
			}
		}
		if mine == nil {
			continue
		}
		for _, a := range event.Assignments {
			if a.GiverID == mine.ID {
				receiver := byID[a.ReceiverID]
				return c.JSON(http.StatusOK, echo.Map{
					"eventId":       event.ID,
					"eventName":     event.Name,
					"receiverName":  receiver.Name,
					"receiverEmail": receiver.Email,
				})
			}
		}
	}
	return c.JSON(http.StatusNotFound, echo.Map{"error": "Assignment not found"})
}

func (s *Server) myInfo(c echo.Context) error {
	user := c.Get("user").(model.User)
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[c.Param("id")]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Event not found"})
	}
	info := echo.Map{"id": user.ID, "name": user.Name, "email": user.Email}
	for _, p := range event.Participants {
		if p.Email == user.Email {
			info = echo.Map{"id": p.ID, "name": p.Name, "email": p.Email}
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"event": echo.Map{
			"id":         event.ID,
			"name":       event.Name,
			"createdAt":  event.CreatedAt,
			"assignedAt": event.AssignedAt,
		},
		"myRole": string(user.Role),
		"myInfo": info,
	})
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) adminDashboard(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	participants := 0
	active := 0
	for _, event := range s.events {
		participants += len(event.Participants)
		if event.AssignedAt == "" {
			active++
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "dashboard",
		"stats": echo.Map{
			"totalUsers":        len(s.users),
			"totalEvents":       len(s.events),
			"totalParticipants": participants,
			"recentEvents":      len(s.events),
			"activeEvents":      active,
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) adminEvents(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := []model.Event{}
	for _, event := range s.events {
		events = append(events, *event)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "all events",
		"events":  events,
		"total":   len(events),
	})
}

func (s *Server) adminUsers(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := []model.User{}
	for _, record := range s.users {
		users = append(users, record.user)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "all users",
		"users":   users,
		"total":   len(users),
	})
}
