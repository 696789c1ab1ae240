package api

import (
	"bytes"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"backoffice/internal/export"
	"backoffice/internal/users"
)

type registerRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Age       int    `json:"age" binding:"gte=0"`
	Phone     string `json:"phone" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	City      string `json:"city" binding:"required"`
	Country   string `json:"country" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateUserRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Age       *int    `json:"age"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	City      *string `json:"city"`
	Country   *string `json:"country"`
}

func (s *server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	u, err := s.Users.Register(c.Request.Context(), users.Registration{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Age:       req.Age,
		Phone:     req.Phone,
		Email:     req.Email,
		Password:  req.Password,
		City:      req.City,
		Country:   req.Country,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, "user created", u)
}

func (s *server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "email and password are required")
		return
	}
	u, err := s.Users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		failErr(c, err)
		return
	}
	token, _, err := s.Tokens.Issue(u.ID)
	if err != nil {
		failErr(c, err)
		return
	}

	sess := sessions.Default(c)
	sess.Set(sessionToken, token)
	_ = sess.Save()

	ok(c, http.StatusOK, "", gin.H{"user_id": u.ID, "token": token})
}

func (s *server) logout(c *gin.Context) {
	if err := s.Tokens.Revoke(c.Request.Context(), currentClaims(c)); err != nil {
		failErr(c, err)
		return
	}
	sess := sessions.Default(c)
	sess.Clear()
	_ = sess.Save()
	ok(c, http.StatusOK, "logged out", nil)
}

func (s *server) listUsers(c *gin.Context) {
	minAge, good := queryInt(c, "min_age")
	if !good {
		return
	}
	maxAge, good := queryInt(c, "max_age")
	if !good {
		return
	}
	list, err := s.Users.List(c.Request.Context(), users.Filter{
		Country: c.Query("country"),
		City:    c.Query("city"),
		Email:   c.Query("email"),
		MinAge:  minAge,
		MaxAge:  maxAge,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "", list)
}

func (s *server) getUser(c *gin.Context) {
	id, good := pathID(c, "id")
	if !good {
		return
	}
	u, err := s.Users.Get(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "", u)
}

func (s *server) userByEmail(c *gin.Context) {
	u, err := s.Users.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "", u)
}

func (s *server) usersByCountry(c *gin.Context) {
	country := c.Param("country")
	list, err := s.Users.List(c.Request.Context(), users.Filter{Country: country})
	if err != nil {
		failErr(c, err)
		return
	}
	if len(list) == 0 {
		fail(c, http.StatusNotFound, "no users found in "+country)
		return
	}
	ok(c, http.StatusOK, "", list)
}

func (s *server) updateUser(c *gin.Context) {
	id, good := pathID(c, "id")
	if !good {
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	u, err := s.Users.Update(c.Request.Context(), id, users.Changes{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Age:       req.Age,
		Phone:     req.Phone,
		Email:     req.Email,
		City:      req.City,
		Country:   req.Country,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "user updated", u)
}

func (s *server) deleteUser(c *gin.Context) {
	id, good := pathID(c, "id")
	if !good {
		return
	}
	if err := s.Users.Delete(c.Request.Context(), id); err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "user deleted", nil)
}

func (s *server) exportUsers(c *gin.Context) {
	f, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		failErr(c, err)
		return
	}
	list, err := s.Users.List(c.Request.Context(), users.Filter{})
	if err != nil {
		failErr(c, err)
		return
	}
	download(c, f, "users", func(b *bytes.Buffer) error { return export.Users(b, f, list) })
}
