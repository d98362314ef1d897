// Dev smoke script: exercises the auth and notes surface against a locally
// running server. Not part of the server build.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"os"
	"time"
)

const apiBase = "http://localhost:8080/api/v1"

func main() {
	jar, err := cookiejar.New(nil)
	if err != nil {
		fatalf("cookie jar: %v", err)
	}
	client := &http.Client{Jar: jar, Timeout: 10 * time.Second}

	email := fmt.Sprintf("smoke_%d@example.com", rand.New(rand.NewSource(time.Now().UnixNano())).Intn(100000))

	fmt.Printf("signing up %s\n", email)
	must(postJSON(client, "/auth/signup", map[string]string{
		"email":     email,
		"password":  "SmokeTest1!",
		"firstName": "Smoke",
		"lastName":  "Test",
	}, http.StatusOK))

	fmt.Println("fetching profile")
	must(getJSON(client, "/auth/me", http.StatusOK))

	fmt.Println("creating a note")
	must(postJSON(client, "/notes", map[string]string{
		"title":   "smoke note",
		"content": "created by scripts/smoke.go",
	}, http.StatusCreated))

	fmt.Println("listing notes")
	must(getJSON(client, "/notes", http.StatusOK))

	fmt.Println("logging out")
	must(postJSON(client, "/auth/logout", nil, http.StatusOK))

	fmt.Println("verifying the session is gone")
	must(getJSON(client, "/auth/me", http.StatusUnauthorized))

	fmt.Println("smoke test passed")
}

func postJSON(client *http.Client, path string, body any, wantStatus int) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	resp, err := client.Post(apiBase+path, "application/json", &buf)
	if err != nil {
		return err
	}
	return check(resp, wantStatus)
}

func getJSON(client *http.Client, path string, wantStatus int) error {
	resp, err := client.Get(apiBase + path)
	if err != nil {
		return err
	}
	return check(resp, wantStatus)
}

func check(resp *http.Response, wantStatus int) error {
	defer resp.Body.Close()
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if resp.StatusCode != wantStatus {
		return fmt.Errorf("%s: got %d want %d: %s", resp.Request.URL.Path, resp.StatusCode, wantStatus, payload)
	}
	fmt.Printf("  %d %s\n", resp.StatusCode, payload)
	return nil
}

func must(err error) {
	if err != nil {
		fatalf("%v", err)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "smoke: "+format+"\n", args...)
	os.Exit(1)
}
