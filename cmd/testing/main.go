package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/google/uuid"
)

// Smoke driver for a locally running instance: signs a user up, creates an
// event, creates a payment transaction, and optionally hammers the callback
// endpoint with duplicate deliveries for a given reference to observe
// idempotent outcomes.

var URL, _ = os.LookupEnv("API_URL")
var PORT, _ = os.LookupEnv("API_PORT")

func baseURL() string {
	host, port := URL, PORT
	if host == "" {
		host = "localhost"
	}
	if port == "" {
		port = "8080"
	}
	return fmt.Sprintf("http://%s:%s/api/v1", host, port)
}

func main() {
	callbackRef := flag.String("callback", "", "payment reference to hit the callback endpoint with")
	callbackCount := flag.Int("n", 10, "number of concurrent duplicate callback deliveries")
	flag.Parse()

	if *callbackRef != "" {
		hammerCallback(*callbackRef, *callbackCount)
		return
	}

	token := signup()
	eventID := createEvent(token)
	fmt.Println("event created:", eventID)

	ref := createTransaction(token, eventID)
	fmt.Println("transaction created:", ref)
	fmt.Printf("re-run with -callback %s after checkout to exercise reconciliation\n", ref)
}

func postJSON(path, token string, payload interface{}, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, baseURL()+path, bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body := map[string]interface{}{}
		json.NewDecoder(resp.Body).Decode(&body)
		return fmt.Errorf("%s: status %d: %v", path, resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func signup() string {
	email := fmt.Sprintf("smoke-%s@example.com", uuid.New().String()[:8])
	var out struct {
		Token string `json:"token"`
	}
	err := postJSON("/auth/signup", "", map[string]interface{}{
		"email":      email,
		"password":   "smoke-test-pass",
		"first_name": "Smoke",
		"last_name":  "Driver",
	}, &out)
	if err != nil {
		fmt.Println("signup failed:", err)
		os.Exit(1)
	}
	return out.Token
}

func createEvent(token string) string {
	var out struct {
		EventID string `json:"event_id"`
	}
	err := postJSON("/events", token, map[string]interface{}{
		"event_name":             "Smoke Owambe",
		"event_type":             "wedding",
		"start_date":             "2026-12-01",
		"end_date":               "2026-12-02",
		"city":                   "Lagos",
		"street_address":         "1 Marina Rd",
		"LGA":                    "Eti-Osa",
		"state":                  "Lagos",
		"reconciliation_service": true,
	}, &out)
	if err != nil {
		fmt.Println("create event failed:", err)
		os.Exit(1)
	}
	return out.EventID
}

func createTransaction(token, eventID string) string {
	var out struct {
		PaymentReference string `json:"payment_reference"`
		Total            string `json:"total"`
	}
	err := postJSON("/payments/transactions", token, map[string]interface{}{
		"event_id": eventID,
	}, &out)
	if err != nil {
		fmt.Println("create transaction failed:", err)
		os.Exit(1)
	}
	fmt.Println("total due:", out.Total)
	return out.PaymentReference
}

// hammerCallback delivers the same callback n times concurrently; every
// response should carry the same terminal outcome.
func hammerCallback(reference string, n int) {
	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			resp, err := client.Get(baseURL() + "/payments/callback?paymentReference=" + reference)
			if err != nil {
				fmt.Println("callback error:", err)
				return
			}
			defer resp.Body.Close()
			fmt.Printf("status=%d location=%s\n", resp.StatusCode, resp.Header.Get("Location"))
		}()
	}
	wg.Wait()
}
