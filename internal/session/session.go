package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// New creates a new session manager backed by the SQLite sessions table.
// lifetimeHours comes from the security settings section; zero falls back
// to 24 hours.
func New(db *sql.DB, isDev bool, lifetimeHours int) *scs.SessionManager {
	if lifetimeHours <= 0 {
		lifetimeHours = 24
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(db)
	sm.Lifetime = time.Duration(lifetimeHours) * time.Hour
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev // Secure cookies in production only

	return sm
}
