package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	timestampLayout = "2006-01-02T15:04:05.000Z"
	localTimeLayout = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"
)

const (
	localtimePath    = "/etc/localtime"
	timezoneFilePath = "/etc/timezone"
)

type healthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
	Timezone  string `json:"timezone"`
	LocalTime string `json:"localTime"`
}

// HealthHandler reports liveness together with the server clock.
type HealthHandler struct {
	service  string
	location *time.Location
	timezone string
	now      func() time.Time
}

// NewHealthHandler reports times in loc, named timezone in responses.
func NewHealthHandler(service string, loc *time.Location, timezone string) *HealthHandler {
	if loc == nil {
		loc = time.Local
	}
	return &HealthHandler{
		service:  service,
		location: loc,
		timezone: timezone,
		now:      time.Now,
	}
}

// Health godoc
//
//	@Summary		Health check
//	@Description	Liveness probe with server time and timezone. Does not contact Keycloak.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	healthResponse
//	@Router			/health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	now := h.now()
	c.JSON(http.StatusOK, healthResponse{
		Status:    "OK",
		Service:   h.service,
		Timestamp: now.UTC().Format(timestampLayout),
		Timezone:  h.timezone,
		LocalTime: now.In(h.location).Format(localTimeLayout),
	})
}

// ResolveTimezone returns the server timezone and its IANA name. TZ wins
// when it names a loadable zone, then the /etc/localtime link target, then
// /etc/timezone. Otherwise the runtime's local zone is used.
func ResolveTimezone(tz string) (*time.Location, string) {
	return resolveTimezone(tz, localtimePath, timezoneFilePath)
}

func resolveTimezone(tz, localtime, timezoneFile string) (*time.Location, string) {
	if tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc, tz
		}
	}

	if name := zoneFromLink(localtime); name != "" {
		return time.Local, name
	}
	if name := zoneFromFile(timezoneFile); name != "" {
		return time.Local, name
	}

	return time.Local, localZoneName()
}

// zoneFromLink extracts "Europe/Berlin" from a link such as
// /usr/share/zoneinfo/Europe/Berlin.
func zoneFromLink(path string) string {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return ""
	}
	_, name, found := strings.Cut(filepath.ToSlash(target), "zoneinfo/")
	if !found || name == "" {
		return ""
	}
	return name
}

// zoneFromFile reads a Debian style /etc/timezone holding one zone name.
func zoneFromFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	name := strings.TrimSpace(string(data))
	if _, err := time.LoadLocation(name); name == "" || err != nil {
		return ""
	}
	return name
}

// localZoneName names time.Local when no IANA name is known: "UTC" for a
// zero-offset UTC zone, else the current abbreviation such as "CET".
func localZoneName() string {
	if name := time.Local.String(); name != "Local" {
		return name
	}
	abbr, offset := time.Now().In(time.Local).Zone()
	switch {
	case offset == 0 && (abbr == "UTC" || abbr == ""):
		return "UTC"
	case abbr == "":
		return time.Local.String()
	default:
		return abbr
	}
}
