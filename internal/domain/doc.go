// Package domain defines the core business entities of the picpost
// service: users, posts, the users tagged in a post, and the inbound
// post submission. Entities validate themselves; persistence and
// transport concerns live elsewhere.
package domain
