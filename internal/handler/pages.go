package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// FormPage renders the public contact form with a fresh anti-forgery token
func (h *Handlers) FormPage(c *gin.Context) {
	c.HTML(http.StatusOK, "form.html", gin.H{
		"Token": h.tokens.Issue(time.Now()),
	})
}

// AdminPage renders the administrative submissions table. Stored text goes
// through html/template, which escapes it on output.
func (h *Handlers) AdminPage(c *gin.Context) {
	submissions, err := h.service.ListSubmissions(h.admin.ListLimit)
	if err != nil {
		logrus.WithError(err).Error("Failed to render admin page")
		c.String(http.StatusInternalServerError, "Failed to fetch submissions")
		return
	}
	c.HTML(http.StatusOK, "admin.html", gin.H{
		"Submissions": submissions,
	})
}
