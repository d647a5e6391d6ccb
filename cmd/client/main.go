package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
)

func main() {
	// 1. CLI Parameter Parsing
	serverAddr := flag.String("server", "http://127.0.0.1:8080", "Base URL of the exchange server")
	user := flag.String("user", "", "User identifier (compulsory for 'place')")
	action := flag.String("action", "place", "Action to perform: ['place', 'trades', 'book', 'clear']")

	// Order Parameters
	sideStr := flag.String("side", "buy", "Order side: 'buy' or 'sell'")
	typeStr := flag.String("type", "limit", "Order type: 'limit' or 'market'")
	price := flag.Float64("price", 100.0, "Limit price")
	qtyStr := flag.String("qty", "10", "Quantity or comma-separated list (e.g. 10,20,50)")

	flag.Parse()

	switch strings.ToLower(*action) {
	case "place":
		if *user == "" {
			fmt.Println("Error: -user is compulsory for placing orders.")
			flag.Usage()
			os.Exit(1)
		}
		for _, q := range parseQuantities(*qtyStr) {
			placeOrder(*serverAddr, *user, *typeStr, *sideStr, *price, q)
		}

	case "trades":
		query := ""
		if *user != "" {
			query = "?user=" + url.QueryEscape(*user)
		}
		fmt.Println(get(*serverAddr + "/trades" + query))

	case "book":
		fmt.Println(get(*serverAddr + "/book"))

	case "clear":
		fmt.Println(post(*serverAddr + "/clear"))

	default:
		log.Fatalf("Unknown action: %s", *action)
	}
}

// parseQuantities splits a comma-separated string into a slice of floats
func parseQuantities(input string) []float64 {
	parts := strings.Split(input, ",")
	var result []float64
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if val, err := strconv.ParseFloat(p, 64); err == nil {
			result = append(result, val)
		} else {
			log.Printf("Warning: Invalid quantity '%s', skipping.", p)
		}
	}
	return result
}

func placeOrder(server, user, orderType, side string, price, qty float64) {
	params := url.Values{}
	params.Set("user", user)
	params.Set("type", orderType)
	params.Set("side", side)
	params.Set("quantity", strconv.FormatFloat(qty, 'f', -1, 64))
	if strings.ToLower(orderType) != "market" {
		params.Set("price", strconv.FormatFloat(price, 'f', -1, 64))
	}

	body := post(server + "/order?" + params.Encode())
	fmt.Printf("-> Sent %s Order: %.2f @ %.2f: %s\n", strings.ToUpper(side), qty, price, body)
}

func get(target string) string {
	resp, err := http.Get(target)
	if err != nil {
		log.Fatalf("GET %s failed: %v", target, err)
	}
	return readBody(resp)
}

func post(target string) string {
	resp, err := http.Post(target, "text/plain", nil)
	if err != nil {
		log.Fatalf("POST %s failed: %v", target, err)
	}
	return readBody(resp)
}

func readBody(resp *http.Response) string {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("reading response failed: %v", err)
	}
	return strings.TrimSpace(string(body))
}
