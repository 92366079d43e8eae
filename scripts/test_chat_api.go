package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const (
	baseURL   = "http://localhost:3000/api"
	userToken = "" // paste a valid JWT here before running
)

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	color.Cyan("🚀 Starting Chat & Emergency API Test\n")

	// 1. List available therapy modes (public)
	color.Yellow("\n1. Get Therapy Modes")
	resp, body, err := sendRequest("GET", "/chat/v1/modes", "", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var modesResp map[string]interface{}
	json.Unmarshal(body, &modesResp)
	prettyPrint(modesResp)

	// 2. Anonymous chat turn (no tracking)
	color.Yellow("\n2. Anonymous Send Chat")
	resp, body, err = sendRequest("POST", "/chat/v1/send", "", map[string]interface{}{
		"message": "I have been feeling a bit stressed at work lately",
		"mode":    "stress",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var chatResp map[string]interface{}
	json.Unmarshal(body, &chatResp)
	prettyPrint(chatResp)

	if userToken == "" {
		color.Cyan("\nNo user token set, skipping authenticated flow.")
		return
	}

	// 3. Create a session
	color.Yellow("\n3. Create Session")
	resp, body, err = sendRequest("POST", "/chat/v1/session", userToken, map[string]interface{}{
		"mode": "general",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var sessionResp struct {
		Data struct {
			Id string `json:"id"`
		} `json:"data"`
	}
	json.Unmarshal(body, &sessionResp)
	prettyPrint(sessionResp)

	// 4. Tracked chat turn
	color.Yellow("\n4. Tracked Send Chat")
	resp, body, err = sendRequest("POST", "/chat/v1/send", userToken, map[string]interface{}{
		"chat_session_id": sessionResp.Data.Id,
		"message":         "Thanks, that helps a little",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var trackedResp map[string]interface{}
	json.Unmarshal(body, &trackedResp)
	prettyPrint(trackedResp)

	// 5. Notification history
	color.Yellow("\n5. Emergency Notification History")
	resp, body, err = sendRequest("GET", "/emergency/v1/history", userToken, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var historyResp map[string]interface{}
	json.Unmarshal(body, &historyResp)
	prettyPrint(historyResp)

	color.Cyan("\n✅ Done")
}
