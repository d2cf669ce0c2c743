/*
Package ports defines the driven-side interfaces of the flowsmith core,
chiefly the text-generation backend. Adapters under pkg/adapters implement
them; the core depends only on these contracts. The session store contract
lives next to its consumer in pkg/session.
*/
package ports
