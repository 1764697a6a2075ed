package swrcache

// Cache key scheme for the backend catalogs. Keys embed the normalized
// server name so entries from different backends never collide; the
// per-tenant dashboard keys share a server prefix so one backend's
// dashboard entries can be invalidated together.

// TenantsKey is the cache key for a server's tenant list.
func TenantsKey(server string) string {
	return "tenants_" + server
}

// DashboardsKey is the cache key for one tenant's dashboard list.
func DashboardsKey(server, tenant string) string {
	return "dashboards_" + server + "_" + tenant
}

// ServerPrefix matches every dashboard entry cached for a server, for
// use with InvalidatePrefix.
func ServerPrefix(server string) string {
	return "dashboards_" + server
}
