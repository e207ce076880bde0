package main

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

type Config struct {
	ServerURL     string
	Area          string
	Confirmations bool
}

func loadConfig() *Config {
	config := &Config{
		ServerURL:     "http://localhost:3000",
		Area:          "",
		Confirmations: true,
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return config
	}

	configPath := filepath.Join(homeDir, ".topoviewrc")
	file, err := os.Open(configPath)
	if err != nil {
		return config
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch strings.ToLower(key) {
		case "serverurl", "server_url", "server":
			config.ServerURL = strings.TrimRight(value, "/")
		case "area":
			config.Area = value
		case "confirmations", "confirm":
			config.Confirmations = strings.ToLower(value) == "true"
		}
	}

	return config
}
