package main

import "launchdash"

type callbackState struct {
	Site    string      `json:"site"`
	Payload *[2]float64 `json:"payload"`
}

type callbackRequest struct {
	Changed []string      `json:"changed"`
	State   callbackState `json:"state"`
}

type callbackResponse struct {
	Figures map[string]launchdash.Figure `json:"figures"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Rows      int    `json:"rows"`
	DatasetID string `json:"datasetId"`
}
