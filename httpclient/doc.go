/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

// Package httpclient provides the HTTP transport for the Riot API: an http.Client assembled from round trippers
// (API key, user agent, request ID, logging and metrics) and APIClient that turns responses into plain values
// suitable for outcome classification.
package httpclient
