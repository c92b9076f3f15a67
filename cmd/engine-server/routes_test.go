package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"quant-casino/internal/app/play"
	"quant-casino/internal/config"
	"quant-casino/internal/testutil"
)

func newTestRouter(t *testing.T) (*httptest.Server, func()) {
	t.Helper()
	st, cleanup := testutil.OpenTestStore(t)
	serverCfg := config.ServerConfig{AdminAPIKey: "admin-key", InitialCredits: 10000}
	gameCfg := config.GameConfig{
		HouseEdge:       0.01,
		MaxMultiplier:   1000,
		MinBet:          1,
		MaxBet:          10000,
		MaxRoundsPerRun: 100000,
	}
	svc := play.NewService(st, serverCfg, gameCfg)
	ts := httptest.NewServer(newRouter(st, svc, serverCfg))
	return ts, func() {
		ts.Close()
		cleanup()
	}
}

func doJSON(t *testing.T, method, url, apiKey string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}

func decodeResp(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestRegisterPlayAndVerifyOverHTTP(t *testing.T) {
	ts, cleanup := newTestRouter(t)
	defer cleanup()

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/accounts/register", "", map[string]any{"name": "alice"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("register status %d", resp.StatusCode)
	}
	var reg struct {
		AccountID string `json:"accountId"`
		APIKey    string `json:"apiKey"`
		Balance   int64  `json:"balance"`
	}
	decodeResp(t, resp, &reg)
	if reg.APIKey == "" || reg.Balance != 10000 {
		t.Fatalf("unexpected registration: %+v", reg)
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/games/dice/bet", reg.APIKey, map[string]any{
		"amount": 100, "target": 50, "condition": "over", "clientSeed": "lucky",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dice bet status %d", resp.StatusCode)
	}
	var bet struct {
		RoundID      string `json:"roundId"`
		Payout       int64  `json:"payout"`
		Balance      int64  `json:"balance"`
		Verification struct {
			ServerSeed string `json:"serverSeed"`
		} `json:"verification"`
	}
	decodeResp(t, resp, &bet)
	if bet.Verification.ServerSeed == "" {
		t.Fatal("expected revealed server seed for single bet")
	}

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/rounds/"+bet.RoundID+"/verify", reg.APIKey, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify status %d", resp.StatusCode)
	}
	var verify struct {
		Valid bool `json:"valid"`
	}
	decodeResp(t, resp, &verify)
	if !verify.Valid {
		t.Fatal("round must verify over HTTP")
	}
}

func TestUnauthorizedAndValidationStatuses(t *testing.T) {
	ts, cleanup := newTestRouter(t)
	defer cleanup()

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/accounts/me", "", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", resp.StatusCode)
	}

	reg := registerHTTP(t, ts.URL)

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/games/dice/bet", reg.APIKey, map[string]any{
		"amount": 100, "target": 150, "condition": "over",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for target out of range, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/rounds/no-such-round/verify", reg.APIKey, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown round, got %d", resp.StatusCode)
	}
}

func TestRunStrategyAndTopupOverHTTP(t *testing.T) {
	ts, cleanup := newTestRouter(t)
	defer cleanup()

	reg := registerHTTP(t, ts.URL)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/games/dice/run-strategy", reg.APIKey, map[string]any{
		"strategy": map[string]any{
			"name": "flat",
			"baseConfig": map[string]any{
				"amount": 10, "target": 50, "condition": "over",
			},
			"executionMode": "sequential",
		},
		"maxRounds":  3,
		"clientSeed": "session",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("run-strategy status %d", resp.StatusCode)
	}
	var run struct {
		RoundsPlayed  int    `json:"roundsPlayed"`
		StoppedReason string `json:"stoppedReason"`
		SeedHash      string `json:"seedHash"`
	}
	decodeResp(t, resp, &run)
	if run.RoundsPlayed != 3 || run.StoppedReason != "max_rounds" || run.SeedHash == "" {
		t.Fatalf("unexpected run: %+v", run)
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/topup", "", map[string]any{
		"accountId": reg.AccountID, "amount": 500,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 topup without admin key, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/topup", "admin-key", map[string]any{
		"accountId": reg.AccountID, "amount": 500,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin topup status %d", resp.StatusCode)
	}
	var bal struct {
		Balance int64 `json:"balance"`
	}
	decodeResp(t, resp, &bal)

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/accounts/me", reg.APIKey, nil)
	var me struct {
		Balance int64 `json:"balance"`
	}
	decodeResp(t, resp, &me)
	if me.Balance != bal.Balance {
		t.Fatalf("balance mismatch after topup: %d vs %d", me.Balance, bal.Balance)
	}
}

type registeredAccount struct {
	AccountID string `json:"accountId"`
	APIKey    string `json:"apiKey"`
}

func registerHTTP(t *testing.T, baseURL string) registeredAccount {
	t.Helper()
	resp := doJSON(t, http.MethodPost, baseURL+"/api/accounts/register", "", map[string]any{"name": "tester"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("register status %d", resp.StatusCode)
	}
	var reg registeredAccount
	decodeResp(t, resp, &reg)
	return reg
}
