// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package rest

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/mlnoga/rawforge/internal/engineerr"
	"github.com/mlnoga/rawforge/internal/render"
	"github.com/mlnoga/rawforge/internal/session"
)

// MakeSandbox secures the current process by creating a chroot
// environment (requires root) and changing the user ID to something
// without elevated rights.
func MakeSandbox(chroot string, setuid int) {
	if len(chroot) > 0 {
		fmt.Printf("Changing filesystem root to %s...\n", chroot)
		if err := syscall.Chroot(chroot); err != nil {
			panic(fmt.Sprintf("error chroot(%s): %s\n", chroot, err.Error()))
		}
		if err := os.Chdir(chroot); err != nil {
			panic(fmt.Sprintf("error chdir(%s): %s\n", chroot, err.Error()))
		}
	}
	if setuid >= 0 {
		fmt.Printf("Setting user id from %d/%d to %d\n", syscall.Getuid(), syscall.Geteuid(), setuid)
		if err := syscall.Setuid(setuid); err != nil {
			panic(fmt.Sprintf("error setuid(%d): %s\n", setuid, err.Error()))
		}
	}
}

// Server holds the session registry the HTTP handlers operate on.
type Server struct {
	registry *session.Registry
}

// NewServer constructs a Server with a fresh, empty session registry.
func NewServer() *Server {
	return &Server{registry: session.NewRegistry()}
}

// Serve registers the engine's routes and listens on 0.0.0.0:8080,
// mirroring the teacher's gin.Default()/route-group setup.
func (s *Server) Serve() {
	r := gin.Default()
	api := r.Group("/api")
	{
		v1 := api.Group("/v1")
		{
			v1.POST("/sessions", s.postSession)
			v1.DELETE("/sessions/:handle", s.deleteSession)
			v1.GET("/sessions/:handle/metadata", s.getMetadata)
			v1.POST("/sessions/:handle/render/:kind", s.postRender)
			v1.POST("/sessions/:handle/render/full", s.postRenderFull)
			v1.POST("/render/:kind", s.postStatelessRender)
			v1.POST("/render/full", s.postStatelessRenderFull)
		}
	}
	r.Run()
}

func (s *Server) postSession(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h := s.registry.Create(raw)
	c.JSON(http.StatusOK, gin.H{"handle": uint64(h)})
}

func (s *Server) deleteSession(c *gin.Context) {
	h, ok := parseHandle(c)
	if !ok {
		return
	}
	s.registry.Release(h)
	c.Status(http.StatusNoContent)
}

func (s *Server) getMetadata(c *gin.Context) {
	h, ok := parseHandle(c)
	if !ok {
		return
	}
	m, err := s.registry.MetadataJSON(h)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", m)
}

func (s *Server) postRender(c *gin.Context) {
	h, ok := parseHandle(c)
	if !ok {
		return
	}
	kind, ok := parseKind(c)
	if !ok {
		return
	}
	adjustments, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	jpg, err := s.registry.Render(h, kind, adjustments)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/jpeg", jpg)
}

func (s *Server) postRenderFull(c *gin.Context) {
	h, ok := parseHandle(c)
	if !ok {
		return
	}
	adjustments, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	jpg, err := s.registry.RenderFullRes(h, adjustments)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/jpeg", jpg)
}

// statelessBody is the multipart-free request shape for the two
// stateless endpoints: raw bytes and adjustments travel together as a
// JSON envelope rather than a form upload, keeping the handler
// symmetric with the session endpoints above.
type statelessBody struct {
	RawBase64   string `json:"rawBase64"`
	Adjustments string `json:"adjustments"`
}

func (s *Server) postStatelessRender(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		return
	}
	rawBytes, adjustments, ok := decodeStatelessBody(c)
	if !ok {
		return
	}
	maxW, maxH := kind.Dims()
	jpg, err := render.RenderStateless(rawBytes, adjustments, maxW, maxH, kind == session.SuperLow || kind == session.Low, render.QualityPreview)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/jpeg", jpg)
}

func (s *Server) postStatelessRenderFull(c *gin.Context) {
	rawBytes, adjustments, ok := decodeStatelessBody(c)
	if !ok {
		return
	}
	jpg, err := render.RenderFullResStateless(rawBytes, adjustments)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/jpeg", jpg)
}

func decodeStatelessBody(c *gin.Context) (rawBytes, adjustments []byte, ok bool) {
	var body statelessBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, nil, false
	}
	rawBytes, err := base64.StdEncoding.DecodeString(body.RawBase64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, nil, false
	}
	return rawBytes, []byte(body.Adjustments), true
}

func parseHandle(c *gin.Context) (session.Handle, bool) {
	v, err := strconv.ParseUint(c.Param("handle"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid handle"})
		return 0, false
	}
	return session.Handle(v), true
}

func parseKind(c *gin.Context) (session.PreviewKind, bool) {
	switch c.Param("kind") {
	case "superlow", "SuperLow":
		return session.SuperLow, true
	case "low", "Low":
		return session.Low, true
	case "preview", "Preview":
		return session.Preview, true
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid kind"})
		return 0, false
	}
}

func writeEngineError(c *gin.Context, err error) {
	if engineerr.Is(err, engineerr.InvalidHandle) {
		c.JSON(http.StatusNotFound, gin.H{"error": "invalid handle"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
