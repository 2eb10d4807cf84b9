// Package acl implements the Anti-Corruption Layer pattern for external
// services: the remote document store, the identity provider, and the
// image host. ACL adapters translate between external API payloads and
// domain models, protecting the domain from external system changes.
package acl
