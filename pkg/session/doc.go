/*
Package session implements session management and persistence orchestration.

A Manager serializes access to each wizard session so that concurrent requests
(two browser tabs, a retried HTTP call) cannot lose an answer in a
read-modify-write race. It combines reference-counted local locks with an
optional distributed lock for deployments running several replicas over a
shared store.
*/
package session
