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
	baseURL  = "http://localhost:3000/api"
	testUser = "smoke-test-user"
)

// Pretty print JSON helper
func prettyPrint(body []byte) {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		fmt.Println(string(body))
		return
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
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

	client := &http.Client{} // LLM calls can be slow, no timeout
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	color.Cyan("🚀 Starting Advisor API smoke test\n")

	color.Yellow("\n[1] New question round")
	resp, body, err := sendRequest("POST", "/advisor/v1/question", map[string]interface{}{
		"user_id":  testUser,
		"question": "感冒了，吃点什么好？",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	color.Yellow("\n[2] Follow-up asking for more recipes")
	resp, body, err = sendRequest("POST", "/advisor/v1/question", map[string]interface{}{
		"user_id":   testUser,
		"question":  "再推荐几个别的",
		"follow_up": true,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	color.Yellow("\n[3] Follow-up asking why")
	resp, body, err = sendRequest("POST", "/advisor/v1/question/chase", map[string]interface{}{
		"user_id":  testUser,
		"question": "为什么推荐第一个？",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	color.Yellow("\n[4] Ingredient filter (include rice, exclude ginger)")
	resp, body, err = sendRequest("POST", "/advisor/v1/filter", map[string]interface{}{
		"user_id": testUser,
		"include": []string{"大米"},
		"exclude": []string{"生姜"},
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	color.Yellow("\n[5] Record an include action")
	resp, body, err = sendRequest("POST", "/history/v1", map[string]interface{}{
		"user_id": testUser,
		"type":    "include",
		"content": "大米",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	color.Yellow("\n[6] Read effective history")
	resp, body, err = sendRequest("GET", "/history/v1?user_id="+testUser, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	color.Yellow("\n[7] Undo last action")
	resp, body, err = sendRequest("DELETE", "/history/v1/last?user_id="+testUser, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	color.Cyan("\n✅ Smoke test finished")
}
