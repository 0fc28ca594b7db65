package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zephyrtronium/keycalc"
	"github.com/zephyrtronium/keycalc/internal/session"
)

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// eval evaluates a whole expression without a session.
func (s *Server) eval(c *gin.Context) {
	var req struct {
		Expression string `json:"expression"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	toks, err := keycalc.Tokenize(req.Expression)
	if err != nil {
		s.evalFailed(c, req.Expression, err)
		return
	}
	post, err := keycalc.ToPostfix(toks)
	if err != nil {
		s.evalFailed(c, req.Expression, err)
		return
	}
	v, err := keycalc.EvalPostfix(post)
	if err != nil {
		s.evalFailed(c, req.Expression, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"result":  keycalc.Format(v),
		"postfix": keycalc.Postfix(post),
	})
}

func (s *Server) evalFailed(c *gin.Context, expr string, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, keycalc.ErrMalformed) || errors.Is(err, keycalc.ErrDivisionByZero) {
		status = http.StatusUnprocessableEntity
	} else {
		s.log.Error("evaluation failed", slog.String("expression", expr), slog.String("error", err.Error()))
	}
	c.JSON(status, gin.H{"error": err.Error(), "result": keycalc.ErrorText})
}

func (s *Server) createSession(c *gin.Context) {
	sess, err := s.sessions.Create()
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, session.ErrFull) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	st, _ := sess.Do(s.sessions.Now(), nil)
	c.JSON(http.StatusCreated, st)
}

// do applies f to the request's session and responds with its state.
func (s *Server) do(c *gin.Context, f func(b *keycalc.Builder) error) {
	sess := c.MustGet(sessionKey).(*session.Session)
	st, err := sess.Do(s.sessions.Now(), f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "state": st})
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) getSession(c *gin.Context) {
	s.do(c, nil)
}

func (s *Server) deleteSession(c *gin.Context) {
	if err := s.sessions.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) pressKeys(c *gin.Context) {
	var req struct {
		Keys string `json:"keys"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.do(c, func(b *keycalc.Builder) error { return b.PressAll(req.Keys) })
}

func (s *Server) digit(c *gin.Context) {
	d := c.Param("d")
	if len(d) != 1 || d[0] < '0' || d[0] > '9' {
		c.JSON(http.StatusBadRequest, gin.H{"error": "digit must be 0 through 9"})
		return
	}
	s.do(c, func(b *keycalc.Builder) error {
		b.Digit(rune(d[0]))
		return nil
	})
}

func (s *Server) decimal(c *gin.Context) {
	s.do(c, func(b *keycalc.Builder) error {
		b.Decimal()
		return nil
	})
}

// operatorNames maps path names of operators to their keys. A slash cannot
// appear in a path segment, so division needs a name.
var operatorNames = map[string]rune{
	"add": '+',
	"sub": '-',
	"mul": '*',
	"div": '/',
	"+":   '+',
	"-":   '-',
	"*":   '*',
}

func (s *Server) operator(c *gin.Context) {
	op, ok := operatorNames[c.Param("op")]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown operator " + c.Param("op")})
		return
	}
	s.do(c, func(b *keycalc.Builder) error {
		b.Operator(op)
		return nil
	})
}

func (s *Server) clearEntry(c *gin.Context) {
	s.do(c, func(b *keycalc.Builder) error {
		b.ClearEntry()
		return nil
	})
}

func (s *Server) reset(c *gin.Context) {
	s.do(c, func(b *keycalc.Builder) error {
		b.Reset()
		return nil
	})
}

func (s *Server) equals(c *gin.Context) {
	s.do(c, func(b *keycalc.Builder) error {
		b.Equals()
		return nil
	})
}
