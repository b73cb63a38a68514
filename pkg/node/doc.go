/*
Package node is the process-local root through which a participant
joins the fabric: identity, registration, liveness, enumeration,
cleanup, and the per-process service table.

# Architecture

	┌──────────────────────── NODE SUBSYSTEM ───────────────────────┐
	│                                                                 │
	│  Builder.Create()                                              │
	│    1. mint NodeId                                              │
	│    2. derive monitor name                                      │
	│    3. select config (explicit or process global)               │
	│    4. create "node" details artifact (staticstorage)           │
	│    5. acquire monitoring token (monitoring)                    │
	│         │                                                       │
	│         ▼                                                       │
	│    SharedNode (refcounted) ──┬── RegisteredServices (by UUID)  │
	│                               └── monitoring.Token (interior   │
	│                                   mutability cell for Drop /   │
	│                                   stageDeath)                  │
	│                                                                 │
	│  List(cfg, cb)                                                │
	│    enumerate <root>/monitoring/*  →  NewState(id)              │
	│      self pid?        → Alive (no backend query)               │
	│      monitoring.State → DoesNotExist/Alive/Dead                │
	│      + best-effort details read                                │
	│                                                                 │
	│  DeadNodeView.RemoveStaleResources()                           │
	│    acquire cleaner (host-exclusive) → removeNode → release     │
	│                                                                 │
	│  Wait(cycleTime) → Tick | TerminationRequest | InterruptSignal │
	│    backed by pkg/signalwatch's process-wide SIGTERM/SIGINT     │
	└─────────────────────────────────────────────────────────────────┘

On-disk layout, rooted at Config.Root:

	<root>/monitoring/<node-id>       liveness token (flock'd file)
	<root>/nodes/<node-id>/node       serialized Details
	<root>/nodes/<node-id>/<other>    sibling artifacts owned by services

# Programmer errors

A handful of conditions are invariant violations rather than recoverable
failures — a NodeId collision on artifact creation, a monitoring token
that already exists for a freshly minted id, a RegisteredServices add/
remove against an entry that shouldn't/should exist. These go through
internal/fatal, which logs and panics instead of exiting the process, so
tests can assert on them with recover().
*/
package node
