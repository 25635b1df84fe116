// Package router decides which view a user may see given the session state.
// A Guard watches the session and sends unauthenticated users to the login
// view and authenticated users away from it.
package router

import (
	"net/url"
	"strings"
)

// Route is a view path. Views under "/(auth)" are open; every other view is protected.
type Route string

const (
	RouteLogin   Route = "/(auth)/login"
	RouteTabs    Route = "/(tabs)"
	RouteHistory Route = "/(tabs)/history"
	RouteProfile Route = "/(tabs)/profile"
)

const authGroupPrefix = "/(auth)"

// MonitorRoute is the detail view of one monitor.
func MonitorRoute(id string) Route {
	return Route("/monitors/" + url.PathEscape(id))
}

// AnomalyRoute is the detail view of one anomaly.
func AnomalyRoute(id string) Route {
	return Route("/anomalies/" + url.PathEscape(id))
}

// InAuthGroup reports whether the route belongs to the sign-in views.
func (r Route) InAuthGroup() bool {
	return r == authGroupPrefix || strings.HasPrefix(string(r), authGroupPrefix+"/")
}

// Protected reports whether the route requires a session.
func (r Route) Protected() bool {
	return !r.InAuthGroup()
}
