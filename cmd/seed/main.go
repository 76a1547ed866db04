// Command seed populates a running server with demo data through its HTTP
// API: a handful of users, a small fleet, bookings and trips in assorted
// states. Intended for local development and dashboard demos.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"

	log "github.com/sirupsen/logrus"
)

var cities = []string{
	"London", "New York", "Madrid", "Singapore", "Dubai",
	"Rotterdam", "Hamburg", "Shanghai", "Mumbai", "Istanbul",
	"Tokyo", "Los Angeles", "Santos", "Jebel Ali", "Antwerp",
}

var cargoKinds = []struct {
	description string
	cargoType   string
	weight      float64
}{
	{"Machine parts", "general", 1200},
	{"Lithium batteries", "hazardous", 400},
	{"Fresh produce", "perishable", 2500},
	{"Electronics", "valuable", 800},
	{"Textiles", "general", 1800},
	{"Pharmaceuticals", "perishable", 300},
}

type client struct {
	baseURL string
	token   string
	http    *http.Client
}

func (c *client) post(path string, body interface{}, out interface{}) error {
	return c.do(http.MethodPost, path, body, out)
}

func (c *client) put(path string, body interface{}, out interface{}) error {
	return c.do(http.MethodPut, path, body, out)
}

func (c *client) do(method, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errBody map[string]string
		json.NewDecoder(resp.Body).Decode(&errBody)
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, errBody["error"])
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func pick(options []string) string {
	return options[rand.Intn(len(options))]
}

func route() map[string]interface{} {
	origin := pick(cities)
	destination := pick(cities)
	for destination == origin {
		destination = pick(cities)
	}
	return map[string]interface{}{
		"origin":      origin,
		"destination": destination,
	}
}

func main() {
	baseURL := os.Getenv("API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	c := &client{baseURL: baseURL, http: &http.Client{}}

	// Admin account; registration hands back a token
	var authResp struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	err := c.post("/api/auth/register", map[string]string{
		"name":     "Demo Admin",
		"email":    fmt.Sprintf("admin-%d@cargolink.demo", rand.Intn(100000)),
		"password": "demo-password",
		"role":     "admin",
	}, &authResp)
	if err != nil {
		log.WithError(err).Fatal("failed to register admin")
	}
	c.token = authResp.Token
	log.Info("registered demo admin")

	// Drivers to assign to vehicles and trips
	driverIDs := make([]string, 0, 4)
	for i := 0; i < 4; i++ {
		var resp struct {
			User struct {
				ID string `json:"id"`
			} `json:"user"`
		}
		err := c.post("/api/auth/register", map[string]string{
			"name":     fmt.Sprintf("Demo Driver %d", i+1),
			"email":    fmt.Sprintf("driver-%d-%d@cargolink.demo", i, rand.Intn(100000)),
			"password": "demo-password",
			"role":     "driver",
		}, &resp)
		if err != nil {
			log.WithError(err).Fatal("failed to register driver")
		}
		driverIDs = append(driverIDs, resp.User.ID)
	}
	log.WithField("count", len(driverIDs)).Info("registered demo drivers")

	// Fleet
	vehicleTypes := []string{"plane", "ship", "train", "truck"}
	vehicleIDs := make([]string, 0, 6)
	for i := 0; i < 6; i++ {
		var resp struct {
			Vehicle struct {
				ID string `json:"id"`
			} `json:"vehicle"`
		}
		err := c.post("/api/vehicles", map[string]interface{}{
			"vehicleCode":      fmt.Sprintf("FLT-%04d-%d", rand.Intn(10000), i),
			"type":             vehicleTypes[i%len(vehicleTypes)],
			"capacity":         float64(5000 + rand.Intn(20000)),
			"currentLocation":  pick(cities),
			"assignedDriverId": driverIDs[i%len(driverIDs)],
		}, &resp)
		if err != nil {
			log.WithError(err).Fatal("failed to create vehicle")
		}
		vehicleIDs = append(vehicleIDs, resp.Vehicle.ID)
	}
	log.WithField("count", len(vehicleIDs)).Info("created demo fleet")

	// Bookings, some of them paid so the dashboard shows revenue
	bookingIDs := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		kind := cargoKinds[rand.Intn(len(cargoKinds))]
		var resp struct {
			Booking struct {
				ID string `json:"id"`
			} `json:"booking"`
		}
		err := c.post("/api/bookings", map[string]interface{}{
			"cargoDetails": map[string]interface{}{
				"description": kind.description,
				"weight":      kind.weight,
				"type":        kind.cargoType,
			},
			"route": route(),
			"price": float64(500 + rand.Intn(5000)),
		}, &resp)
		if err != nil {
			log.WithError(err).Fatal("failed to create booking")
		}
		bookingIDs = append(bookingIDs, resp.Booking.ID)

		if i%3 == 0 {
			err := c.put("/api/bookings/"+resp.Booking.ID+"/status", map[string]string{
				"status":        "confirmed",
				"paymentStatus": "paid",
			}, nil)
			if err != nil {
				log.WithError(err).Fatal("failed to update booking status")
			}
		}
	}
	log.WithField("count", len(bookingIDs)).Info("created demo bookings")

	// Trips over subsets of the bookings
	for i := 0; i < 3; i++ {
		var resp struct {
			Trip struct {
				ID string `json:"id"`
			} `json:"trip"`
		}
		err := c.post("/api/trips", map[string]interface{}{
			"vehicleId": vehicleIDs[rand.Intn(len(vehicleIDs))],
			"driverId":  driverIDs[rand.Intn(len(driverIDs))],
			"route":     route(),
			"bookings":  bookingIDs[i*4 : i*4+4],
		}, &resp)
		if err != nil {
			log.WithError(err).Fatal("failed to create trip")
		}

		if i == 0 {
			err := c.put("/api/trips/"+resp.Trip.ID+"/status", map[string]interface{}{
				"status":   "in-progress",
				"fuelUsed": 120.5,
				"distance": 842.0,
			}, nil)
			if err != nil {
				log.WithError(err).Fatal("failed to update trip status")
			}
		}
	}
	log.Info("created demo trips")

	log.Info("seed complete")
}
