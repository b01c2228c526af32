package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "monitor":
		return monitorTemplate, nil
	case "sim":
		return simTemplate, nil
	case "robot":
		return robotTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

// Validate loads path as kind and reports the first problem found.
func Validate(kind, path string) error {
	var err error
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "monitor":
		_, err = LoadMonitorConfig(path)
	case "sim":
		_, err = LoadSimConfig(path)
	case "robot":
		_, err = LoadRobotConfig(path)
	default:
		err = fmt.Errorf("unknown config kind: %s", kind)
	}
	return err
}

const monitorTemplate = `name = "gcmonitor"
listen_addr = ":3838"
return_addr = ":3939"
http_addr = ":8380"
cors_origins = ["http://localhost:3000"]
listen_returns = true
stale_after = "1m"
league = "spl"
`

const simTemplate = `target_addr = "255.255.255.255:3838"
interval = "500ms"
players_per_team = 5
state = "initial"
secondary_state = "normal"
competition_phase = 0
competition_type = 0
secs_remaining = 600
kicking_team = 1

[[teams]]
number = 1
color = "blue"
score = 0

[[teams]]
number = 2
color = "red"
score = 0
`

const robotTemplate = `target_addr = "255.255.255.255:3939"
team = 1
player = 1
interval = "1s"
message = "alive"
`
