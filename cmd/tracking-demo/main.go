// Command tracking-demo drives the embedded tracking engine against a running
// tracking service, simulating a learner watching a video: start, a mid-video
// pause and resume, a seek past the reporting threshold, and completion.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/DSR124124/edugen-tracking-go/internal/domain/user"
	"github.com/DSR124124/edugen-tracking-go/internal/engine"
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:8080", "tracking service base URL")
		userID     = flag.String("user", "demo-learner", "user id to authenticate as")
		password   = flag.String("password", "learn", "learner password")
		materialID = flag.Int64("material", 1, "material id to track")
	)
	flag.Parse()

	token, err := login(*baseURL, *userID, *password)
	if err != nil {
		log.Fatalf("login failed: %v", err)
	}
	log.Printf("authenticated as %s", *userID)

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	dispatcher := engine.NewHTTPDispatcher(engine.HTTPDispatcherConfig{
		Endpoint:  *baseURL + "/api/v1/tracking/events",
		Role:      user.RoleLearner,
		AuthToken: token,
	}, logger)

	controller := engine.NewController(dispatcher, engine.ControllerConfig{
		Role:              user.RoleLearner,
		HeartbeatInterval: 2 * time.Second,
		Logger:            logger,
	})

	log.Printf("starting session for material %d", *materialID)
	controller.Start(*materialID)

	time.Sleep(3 * time.Second)
	controller.UpdateProgress(12)

	log.Println("pausing")
	controller.Pause()
	time.Sleep(2 * time.Second)

	log.Println("resuming")
	controller.Resume()
	time.Sleep(3 * time.Second)

	log.Println("seeking ahead")
	controller.UpdateProgress(55)
	time.Sleep(2 * time.Second)

	log.Println("completing")
	controller.Complete()
	controller.Close()

	log.Printf("done: server session id %d, watched %ds",
		controller.ServerSessionID(), controller.AccumulatedDurationSeconds())
}

func login(baseURL, userID, password string) (string, error) {
	body, _ := json.Marshal(map[string]string{
		"user_id":  userID,
		"role":     "learner",
		"password": password,
	})

	resp, err := http.Post(baseURL+"/api/v1/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login rejected with status %d", resp.StatusCode)
	}

	var parsed struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	return parsed.Token, nil
}
