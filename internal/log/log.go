// Package log writes one JSON object per line for access, audit and security events.
package log

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Locals keys the auth middleware fills in for the current caller.
const (
	UserIDKey = "user_id"
	RoleKey   = "role"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelAudit Level = "audit"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

type entry struct {
	TS     string         `json:"ts"`
	Level  Level          `json:"level"`
	ReqID  string         `json:"req_id,omitempty"`
	IP     string         `json:"ip,omitempty"`
	Method string         `json:"method,omitempty"`
	Path   string         `json:"path,omitempty"`
	UserID string         `json:"user_id,omitempty"`
	Role   string         `json:"role,omitempty"`
	Action string         `json:"action,omitempty"`
	Status int            `json:"status,omitempty"`
	Err    string         `json:"err,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

// secret field names are replaced before a line is written.
var secret = []string{"password", "token", "hash", "secret", "authorization"}

const redacted = "[redacted]"

func scrub(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return nil
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		lk := strings.ToLower(k)
		for _, s := range secret {
			if strings.Contains(lk, s) {
				v = redacted
				break
			}
		}
		out[k] = v
	}
	return out
}

// write emits one line. c is nil for work outside a request, such as mail delivery.
func write(level Level, c *fiber.Ctx, action string, err error, fields map[string]any) {
	e := entry{TS: time.Now().UTC().Format(time.RFC3339), Level: level, Action: action, Fields: scrub(fields)}
	if c != nil {
		e.IP = c.IP()
		e.Method = c.Method()
		e.Path = c.Path()
		e.Status = c.Response().StatusCode()
		e.ReqID, _ = c.Locals("requestid").(string)
		e.UserID, _ = c.Locals(UserIDKey).(string)
		e.Role, _ = c.Locals(RoleKey).(string)
	}
	if err != nil {
		e.Err = err.Error()
	}
	b, _ := json.Marshal(e)
	log.Println(string(b))
}

func Info(c *fiber.Ctx, action string, fields map[string]any)  { write(LevelInfo, c, action, nil, fields) }
func Audit(c *fiber.Ctx, action string, fields map[string]any) { write(LevelAudit, c, action, nil, fields) }

// Security records auth failures, denials, validation failures and rate limit hits.
func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write(LevelWarn, c, action, nil, fields)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write(LevelError, c, action, err, fields)
}
