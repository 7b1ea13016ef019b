package controllers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"stay-booking/middleware"
	"stay-booking/services"
)

type AuthController struct {
	Svc   *services.AuthService
	Users *services.UserService

	// AppRedirect, when set, receives the session after an OAuth callback instead of a JSON body.
	AppRedirect string
}

func NewAuthController(svc *services.AuthService, users *services.UserService, appRedirect string) *AuthController {
	return &AuthController{Svc: svc, Users: users, AppRedirect: appRedirect}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type callbackRequest struct {
	Code  string `form:"code" json:"code"`
	State string `form:"state" json:"state"`
}

// POST /api/auth/signup
func (ctl *AuthController) SignUp(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	sess, err := ctl.Svc.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": sess})
}

// POST /api/auth/signin
func (ctl *AuthController) SignIn(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	sess, err := ctl.Svc.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sess})
}

// POST /api/auth/signout
func (ctl *AuthController) SignOut(c *gin.Context) {
	if err := ctl.Svc.SignOut(c.Request.Context(), middleware.Identity(c)); err != nil {
		respondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/auth/session
func (ctl *AuthController) Session(c *gin.Context) {
	id := middleware.Identity(c)
	out := gin.H{
		"auth_id":    id.AuthID,
		"email":      id.Email,
		"expires_at": id.ExpiresAt,
	}
	user, err := ctl.Users.Resolve(c.Request.Context(), id)
	switch {
	case err == nil:
		out["user"] = user
	case services.IsBackend(err):
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// GET /api/auth/oauth/:provider
func (ctl *AuthController) OAuthURL(c *gin.Context) {
	u, err := ctl.Svc.OAuthURL(c.Request.Context(), c.Param("provider"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"url": u}})
}

// GET|POST /api/auth/callback/:provider. Apple posts the form back, the others redirect with a query.
func (ctl *AuthController) OAuthCallback(c *gin.Context) {
	var req callbackRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}
	sess, err := ctl.Svc.OAuthCallback(c.Request.Context(), c.Param("provider"), req.Code, req.State)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if ctl.AppRedirect == "" {
		c.JSON(http.StatusOK, gin.H{"data": sess})
		return
	}
	target, err := url.Parse(ctl.AppRedirect)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	q := target.Query()
	q.Set("access_token", sess.AccessToken)
	q.Set("expires_at", strconv.FormatInt(sess.ExpiresAt.Unix(), 10))
	q.Set("is_new_user", strconv.FormatBool(sess.IsNewUser))
	target.RawQuery = q.Encode()
	c.Redirect(http.StatusFound, target.String())
}

// GET /api/users/exists
func (ctl *AuthController) UserExists(c *gin.Context) {
	ok, err := ctl.Users.CheckIfUserExists(c.Request.Context(), middleware.Identity(c))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"exists": ok}})
}
