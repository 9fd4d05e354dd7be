package registry

import "fmt"

// Catalog returns the full PegaProx tool table. This is the single source of
// truth for what the agent can do against the upstream API: the dispatcher
// interprets these entries generically.
func Catalog() []Tool {
	return []Tool{
		// --- Clusters ---
		{
			Name:    "list_clusters",
			Method:  "GET",
			Path:    "/api/clusters",
			Summary: "List all Proxmox clusters managed by PegaProx with status, node count, and resource summary. Use this as a starting point to discover what clusters are available.",
		},
		{
			Name:    "get_global_summary",
			Method:  "GET",
			Path:    "/api/summary",
			Summary: "Get aggregated CPU, memory, storage, and VM counts across every cluster. Useful for a high-level overview of overall infrastructure health.",
		},
		{
			Name:    "get_cluster_metrics",
			Method:  "GET",
			Path:    "/api/clusters/{cluster_name}/metrics",
			Summary: "Get detailed CPU, memory, and storage metrics over time for a specific cluster.",
			Params: []Param{
				{Name: "cluster_name", In: InPath, Type: TypeString, Required: true, Description: "The name of the cluster as returned by list_clusters."},
			},
		},

		// --- Nodes ---
		{
			Name:    "list_nodes",
			Method:  "GET",
			Path:    "/api/clusters/{cluster_name}/nodes",
			Summary: "List all nodes in a Proxmox cluster with online status, CPU/memory usage, and uptime.",
			Params: []Param{
				{Name: "cluster_name", In: InPath, Type: TypeString, Required: true, Description: "The cluster to query."},
			},
		},
		{
			Name:    "get_node_summary",
			Method:  "GET",
			Path:    "/api/clusters/{cluster_name}/nodes/{node_name}",
			Summary: "Get CPU, memory, storage, network stats, and the running VM list for a specific node.",
			Params: []Param{
				{Name: "cluster_name", In: InPath, Type: TypeString, Required: true, Description: "The cluster the node belongs to."},
				{Name: "node_name", In: InPath, Type: TypeString, Required: true, Description: "The name of the node (e.g. 'pve1')."},
			},
		},
		{
			Name:    "node_action",
			Method:  "POST",
			Path:    "/api/clusters/{cluster_name}/nodes/{node_name}/action",
			Summary: "Perform a power action on a Proxmox node. Destructive: confirm with the user before stopping or rebooting a node, as it affects all VMs running on it.",
			Params: []Param{
				{Name: "cluster_name", In: InPath, Type: TypeString, Required: true, Description: "The cluster the node belongs to."},
				{Name: "node_name", In: InPath, Type: TypeString, Required: true, Description: "The name of the node."},
				{Name: "action", In: InBody, Type: TypeString, Required: true, Enum: []string{"start", "stop", "reboot"}, Description: "The power action to perform."},
			},
		},

		// --- VMs ---
		{
			Name:    "list_vms",
			Method:  "GET",
			Path:    "/api/clusters/{cluster_name}/vms",
			Summary: "List virtual machines in a cluster with VMID, name, status, CPU/memory allocation, and node, optionally filtered by node.",
			Params: []Param{
				{Name: "cluster_name", In: InPath, Type: TypeString, Required: true, Description: "The cluster to query."},
				{Name: "node", In: InQuery, Type: TypeString, Description: "If provided, only return VMs on this specific node."},
			},
		},
		{
			Name:    "get_vm_config",
			Method:  "GET",
			Path:    "/api/clusters/{cluster_name}/vms/{vmid}",
			Summary: "Get the full hardware configuration and runtime status for a specific VM.",
			Params: []Param{
				{Name: "cluster_name", In: InPath, Type: TypeString, Required: true, Description: "The cluster the VM belongs to."},
				{Name: "vmid", In: InPath, Type: TypeNumber, Required: true, Description: "The numeric VM ID."},
			},
		},
		{
			Name:    "vm_action",
			Method:  "POST",
			Path:    "/api/clusters/{cluster_name}/vms/{vmid}/action",
			Summary: "Perform a power/lifecycle action on a VM. Confirm with the user before stopping, rebooting, or resetting a running VM to avoid data loss.",
			Params: []Param{
				{Name: "cluster_name", In: InPath, Type: TypeString, Required: true, Description: "The cluster the VM belongs to."},
				{Name: "vmid", In: InPath, Type: TypeNumber, Required: true, Description: "The numeric VM ID."},
				{Name: "action", In: InBody, Type: TypeString, Required: true, Enum: []string{"start", "stop", "shutdown", "reboot", "suspend", "resume", "reset"}, Description: "The lifecycle action to perform."},
			},
		},
		{
			Name:    "migrate_vm",
			Method:  "POST",
			Path:    "/api/clusters/{cluster_name}/vms/{vmid}/migrate",
			Summary: "Migrate a VM to a different node within the same cluster. Live migration by default; offline migration requires the VM to be stopped first.",
			Params: []Param{
				{Name: "cluster_name", In: InPath, Type: TypeString, Required: true, Description: "The cluster containing the VM."},
				{Name: "vmid", In: InPath, Type: TypeNumber, Required: true, Description: "The numeric VM ID to migrate."},
				{Name: "target_node", In: InBody, Type: TypeString, Required: true, Description: "The destination node name."},
				{Name: "online", In: InBody, Type: TypeBoolean, Default: true, Description: "If true (default), perform a live migration."},
			},
		},
		{
			Name:    "clone_vm",
			Method:  "POST",
			Path:    "/api/clusters/{cluster_name}/vms/{vmid}/clone",
			Summary: "Clone a VM or template into a new VM, as a full clone or a linked clone.",
			Params: []Param{
				{Name: "cluster_name", In: InPath, Type: TypeString, Required: true, Description: "The cluster containing the source VM."},
				{Name: "vmid", In: InPath, Type: TypeNumber, Required: true, Description: "The source VM ID to clone from."},
				{Name: "new_vmid", In: InBody, Type: TypeNumber, Required: true, Description: "The VMID to assign to the new VM."},
				{Name: "name", In: InBody, Type: TypeString, Description: "Optional name for the new VM."},
				{Name: "target_node", Key: "target", In: InBody, Type: TypeString, Description: "Node to place the clone on. Defaults to same node as source."},
				{Name: "full_clone", Key: "full", In: InBody, Type: TypeBoolean, Default: true, Description: "If true (default), create an independent full clone; false creates a linked clone (requires template)."},
			},
		},
		{
			Name:    "delete_vm",
			Method:  "DELETE",
			Path:    "/api/clusters/{cluster_name}/vms/{vmid}",
			Summary: "Permanently delete a VM and optionally purge its disk images. Irreversible: always confirm with the user and ensure the VM is stopped first.",
			Params: []Param{
				{Name: "cluster_name", In: InPath, Type: TypeString, Required: true, Description: "The cluster containing the VM."},
				{Name: "vmid", In: InPath, Type: TypeNumber, Required: true, Description: "The numeric VM ID to delete."},
				{Name: "purge", In: InQuery, Type: TypeBoolean, Description: "If true, also delete associated disk images from storage."},
			},
		},

		// --- Snapshots ---
		{
			Name:    "list_snapshots",
			Method:  "GET",
			Path:    "/api/clusters/{cluster_name}/vms/{vmid}/snapshots",
			Summary: "List all snapshots for a specific VM with name, creation time, description, and RAM state.",
			Params: []Param{
				{Name: "cluster_name", In: InPath, Type: TypeString, Required: true, Description: "The cluster containing the VM."},
				{Name: "vmid", In: InPath, Type: TypeNumber, Required: true, Description: "The numeric VM ID."},
			},
		},
		{
			Name:    "list_all_snapshots",
			Method:  "GET",
			Path:    "/api/clusters/{cluster_name}/snapshots",
			Summary: "List all snapshots across every VM in a cluster, useful for identifying old or unused snapshots.",
			Params: []Param{
				{Name: "cluster_name", In: InPath, Type: TypeString, Required: true, Description: "The cluster to query."},
			},
		},
		{
			Name:    "create_snapshot",
			Method:  "POST",
			Path:    "/api/clusters/{cluster_name}/vms/{vmid}/snapshots",
			Summary: "Create a snapshot of a VM, optionally including RAM state.",
			Params: []Param{
				{Name: "cluster_name", In: InPath, Type: TypeString, Required: true, Description: "The cluster containing the VM."},
				{Name: "vmid", In: InPath, Type: TypeNumber, Required: true, Description: "The numeric VM ID."},
				{Name: "snapshot_name", Key: "snapname", In: InBody, Type: TypeString, Required: true, Description: "Name for the snapshot (alphanumeric and hyphens only)."},
				{Name: "description", In: InBody, Type: TypeString, Description: "Optional human-readable description of the snapshot."},
				{Name: "include_ram", Key: "vmstate", In: InBody, Type: TypeBoolean, Description: "If true, include RAM state (requires more time and storage)."},
			},
		},
		{
			Name:    "rollback_snapshot",
			Method:  "POST",
			Path:    "/api/clusters/{cluster_name}/vms/{vmid}/snapshots/{snapshot_name}/rollback",
			Summary: "Roll back a VM to a previously created snapshot. Destructive: all changes made after the snapshot are permanently lost; confirm with the user first.",
			Params: []Param{
				{Name: "cluster_name", In: InPath, Type: TypeString, Required: true, Description: "The cluster containing the VM."},
				{Name: "vmid", In: InPath, Type: TypeNumber, Required: true, Description: "The numeric VM ID."},
				{Name: "snapshot_name", In: InPath, Type: TypeString, Required: true, Description: "The name of the snapshot to roll back to."},
			},
		},
		{
			Name:    "delete_snapshot",
			Method:  "DELETE",
			Path:    "/api/clusters/{cluster_name}/vms/{vmid}/snapshots/{snapshot_name}",
			Summary: "Delete a snapshot from a VM. Irreversible: confirm with the user, especially for snapshots that may be the only recovery point.",
			Params: []Param{
				{Name: "cluster_name", In: InPath, Type: TypeString, Required: true, Description: "The cluster containing the VM."},
				{Name: "vmid", In: InPath, Type: TypeNumber, Required: true, Description: "The numeric VM ID."},
				{Name: "snapshot_name", In: InPath, Type: TypeString, Required: true, Description: "The name of the snapshot to delete."},
			},
		},

		// --- Alerts ---
		{
			Name:    "list_alerts",
			Method:  "GET",
			Path:    "/api/alerts",
			Summary: "List configured alerts with condition, threshold, severity, and status, optionally filtered by cluster.",
			Params: []Param{
				{Name: "cluster_name", Key: "cluster", In: InQuery, Type: TypeString, Description: "If provided, only return alerts for this cluster."},
				{Name: "active_only", Key: "active", In: InQuery, Type: TypeBoolean, Description: "If true, return only currently firing alerts."},
			},
		},
		{
			Name:    "create_alert",
			Method:  "POST",
			Path:    "/api/alerts",
			Summary: "Create a new alert rule for a cluster metric.",
			Params: []Param{
				{Name: "name", In: InBody, Type: TypeString, Required: true, Description: "Unique name for this alert rule."},
				{Name: "cluster_name", Key: "cluster", In: InBody, Type: TypeString, Required: true, Description: "The cluster to monitor."},
				{Name: "metric", In: InBody, Type: TypeString, Required: true, Description: "The metric to watch (e.g. 'cpu_usage', 'memory_usage', 'storage_usage')."},
				{Name: "threshold", In: InBody, Type: TypeNumber, Required: true, Description: "The numeric threshold value that triggers the alert."},
				{Name: "condition", In: InBody, Type: TypeString, Required: true, Enum: []string{"gt", "lt", "gte", "lte"}, Description: "Comparison operator."},
				{Name: "severity", In: InBody, Type: TypeString, Enum: []string{"info", "warning", "critical"}, Default: "warning", Description: "Alert severity level. Defaults to 'warning'."},
				{Name: "description", In: InBody, Type: TypeString, Description: "Optional human-readable description of what this alert means."},
			},
		},
		{
			Name:    "delete_alert",
			Method:  "DELETE",
			Path:    "/api/alerts/{alert_id}",
			Summary: "Delete an alert rule by its ID.",
			Params: []Param{
				{Name: "alert_id", In: InPath, Type: TypeString, Required: true, Description: "The ID of the alert to delete (as returned by list_alerts)."},
			},
		},

		// --- Schedules ---
		{
			Name:    "list_scheduled_tasks",
			Method:  "GET",
			Path:    "/api/schedules",
			Summary: "List all scheduled tasks with schedule, action, target, last run, and next run, optionally filtered by cluster.",
			Params: []Param{
				{Name: "cluster_name", Key: "cluster", In: InQuery, Type: TypeString, Description: "If provided, only return tasks for this cluster."},
			},
		},
		{
			Name:    "create_scheduled_task",
			Method:  "POST",
			Path:    "/api/schedules",
			Summary: "Create a new scheduled task driven by a cron expression.",
			Params: []Param{
				{Name: "name", In: InBody, Type: TypeString, Required: true, Description: "Unique name for this scheduled task."},
				{Name: "cluster_name", Key: "cluster", In: InBody, Type: TypeString, Required: true, Description: "The cluster this task applies to."},
				{Name: "action", In: InBody, Type: TypeString, Required: true, Description: "The action to perform (e.g. 'snapshot', 'start', 'stop', 'backup', 'reboot')."},
				{Name: "schedule", In: InBody, Type: TypeString, Required: true, Description: "Cron expression for the schedule (e.g. '0 2 * * *' for daily at 2am)."},
				{Name: "target_type", In: InBody, Type: TypeString, Required: true, Enum: []string{"vm", "node", "cluster"}, Description: "What the action targets."},
				{Name: "target_id", In: InBody, Type: TypeString, Description: "The VMID or node name when target_type is 'vm' or 'node'."},
				{Name: "enabled", In: InBody, Type: TypeBoolean, Default: true, Description: "Whether to enable the task immediately. Defaults to true."},
				{Name: "description", In: InBody, Type: TypeString, Description: "Optional description of what this task does."},
			},
		},
		{
			Name:    "delete_scheduled_task",
			Method:  "DELETE",
			Path:    "/api/schedules/{task_id}",
			Summary: "Delete a scheduled task by its ID.",
			Params: []Param{
				{Name: "task_id", In: InPath, Type: TypeString, Required: true, Description: "The ID of the scheduled task to delete."},
			},
		},
		{
			Name:    "run_scheduled_task",
			Method:  "POST",
			Path:    "/api/schedules/{task_id}/run",
			Summary: "Immediately trigger a scheduled task to run now, outside its schedule.",
			Params: []Param{
				{Name: "task_id", In: InPath, Type: TypeString, Required: true, Description: "The ID of the scheduled task to run."},
			},
		},

		// --- Audit ---
		{
			Name:    "get_audit_log",
			Method:  "GET",
			Path:    "/api/audit",
			Summary: "Get the global audit log of all actions performed through PegaProx, with timestamp, user, action, target, and result.",
			Params: []Param{
				{Name: "limit", In: InQuery, Type: TypeNumber, Description: "Maximum number of entries to return. Defaults to 50."},
				{Name: "offset", In: InQuery, Type: TypeNumber, Description: "Number of entries to skip for pagination."},
				{Name: "user", In: InQuery, Type: TypeString, Description: "If provided, filter to actions performed by this username."},
				{Name: "action", In: InQuery, Type: TypeString, Description: "If provided, filter to this specific action type (e.g. 'vm.start', 'snapshot.create')."},
			},
		},
		{
			Name:    "get_cluster_audit",
			Method:  "GET",
			Path:    "/api/clusters/{cluster_name}/audit",
			Summary: "Get the audit log scoped to a specific cluster, including VM operations, node actions, snapshot events, and configuration changes.",
			Params: []Param{
				{Name: "cluster_name", In: InPath, Type: TypeString, Required: true, Description: "The cluster to retrieve audit logs for."},
				{Name: "limit", In: InQuery, Type: TypeNumber, Description: "Maximum number of entries to return. Defaults to 50."},
				{Name: "offset", In: InQuery, Type: TypeNumber, Description: "Number of entries to skip for pagination."},
			},
		},
		{
			Name:    "get_migration_history",
			Method:  "GET",
			Path:    "/api/migrations",
			Summary: "Get the history of VM migrations with source node, target node, VM ID, timestamp, duration, and outcome.",
			Params: []Param{
				{Name: "cluster_name", Key: "cluster", In: InQuery, Type: TypeString, Description: "If provided, filter migrations to this cluster."},
				{Name: "vmid", In: InQuery, Type: TypeNumber, Description: "If provided, filter migrations to this specific VM ID."},
				{Name: "limit", In: InQuery, Type: TypeNumber, Description: "Maximum number of entries to return. Defaults to 50."},
			},
		},

		// --- Backups ---
		{
			Name:    "list_backups",
			Method:  "GET",
			Path:    "/api/clusters/{cluster_name}/vms/{node_name}/{vm_type}/{vmid}/backups",
			Summary: "List all backups for a specific VM or container.",
			Params: []Param{
				{Name: "cluster_name", In: InPath, Type: TypeString, Required: true, Description: "Name of the cluster."},
				{Name: "node_name", In: InPath, Type: TypeString, Required: true, Description: "Name of the node the VM resides on."},
				{Name: "vm_type", In: InPath, Type: TypeString, Required: true, Enum: []string{"qemu", "lxc"}, Description: "'qemu' for VMs, 'lxc' for containers."},
				{Name: "vmid", In: InPath, Type: TypeNumber, Required: true, Description: "The VM/container ID."},
			},
		},
		{
			Name:    "create_backup",
			Method:  "POST",
			Path:    "/api/clusters/{cluster_name}/vms/{node_name}/{vm_type}/{vmid}/backups/create",
			Summary: "Create a backup of a VM or container.",
			Params: []Param{
				{Name: "cluster_name", In: InPath, Type: TypeString, Required: true, Description: "Name of the cluster."},
				{Name: "node_name", In: InPath, Type: TypeString, Required: true, Description: "Name of the node the VM resides on."},
				{Name: "vm_type", In: InPath, Type: TypeString, Required: true, Enum: []string{"qemu", "lxc"}, Description: "'qemu' for VMs, 'lxc' for containers."},
				{Name: "vmid", In: InPath, Type: TypeNumber, Required: true, Description: "The VM/container ID."},
				{Name: "storage", In: InBody, Type: TypeString, Required: true, Description: "Storage pool to save the backup to (e.g. 'local', 'nfs-backups')."},
				{Name: "mode", In: InBody, Type: TypeString, Enum: []string{"snapshot", "suspend", "stop"}, Default: "snapshot", Description: "Backup mode. 'snapshot' (default) has no downtime."},
				{Name: "compress", In: InBody, Type: TypeString, Enum: []string{"zstd", "lzo", "gzip", "none"}, Default: "zstd", Description: "Compression algorithm. Defaults to 'zstd'."},
				{Name: "notes", In: InBody, Type: TypeString, Description: "Optional notes to attach to the backup."},
			},
		},
		{
			Name:    "restore_backup",
			Method:  "POST",
			Path:    "/api/clusters/{cluster_name}/vms/{node_name}/{vm_type}/{vmid}/backups/restore",
			Summary: "Restore a VM or container from a backup. Overwrites the current VM state; confirm with the user before proceeding.",
			Params: []Param{
				{Name: "cluster_name", In: InPath, Type: TypeString, Required: true, Description: "Name of the cluster."},
				{Name: "node_name", In: InPath, Type: TypeString, Required: true, Description: "Name of the node."},
				{Name: "vm_type", In: InPath, Type: TypeString, Required: true, Enum: []string{"qemu", "lxc"}, Description: "'qemu' for VMs, 'lxc' for containers."},
				{Name: "vmid", In: InPath, Type: TypeNumber, Required: true, Description: "The VM/container ID to restore to."},
				{Name: "volid", In: InBody, Type: TypeString, Required: true, Description: "The backup volume ID to restore from (e.g. 'local:backup/vzdump-qemu-100-...')."},
				{Name: "target_storage", Key: "storage", In: InBody, Type: TypeString, Description: "Optional storage pool to restore disks to. Defaults to original."},
			},
		},
		{
			Name:    "delete_backup",
			Method:  "DELETE",
			Path:    "/api/clusters/{cluster_name}/vms/{node_name}/{vm_type}/{vmid}/backups/{volid}",
			Summary: "Delete a backup. Irreversible: confirm with the user before proceeding.",
			Params: []Param{
				{Name: "cluster_name", In: InPath, Type: TypeString, Required: true, Description: "Name of the cluster."},
				{Name: "node_name", In: InPath, Type: TypeString, Required: true, Description: "Name of the node."},
				{Name: "vm_type", In: InPath, Type: TypeString, Required: true, Enum: []string{"qemu", "lxc"}, Description: "'qemu' for VMs, 'lxc' for containers."},
				{Name: "vmid", In: InPath, Type: TypeNumber, Required: true, Description: "The VM/container ID."},
				{Name: "volid", In: InPath, Type: TypeString, Required: true, Description: "The backup volume ID to delete."},
			},
		},

		// --- Storage ---
		{
			Name:    "list_datastores",
			Method:  "GET",
			Path:    "/api/clusters/{cluster_name}/datastores",
			Summary: "List all storage pools/datastores in a cluster with usage stats.",
			Params: []Param{
				{Name: "cluster_name", In: InPath, Type: TypeString, Required: true, Description: "Name of the cluster."},
			},
		},
		{
			Name:    "list_datastore_content",
			Method:  "GET",
			Path:    "/api/clusters/{cluster_name}/datastores/{storage_name}/content",
			Summary: "List contents of a storage pool (backups, ISOs, templates, disk images).",
			Params: []Param{
				{Name: "cluster_name", In: InPath, Type: TypeString, Required: true, Description: "Name of the cluster."},
				{Name: "storage_name", In: InPath, Type: TypeString, Required: true, Description: "Name of the storage pool (e.g. 'local', 'nfs-backups')."},
				{Name: "content_type", Key: "content", In: InQuery, Type: TypeString, Enum: []string{"backup", "iso", "vztmpl", "images"}, Description: "Optional content filter; omit for all content."},
			},
		},
		{
			Name:    "delete_datastore_content",
			Method:  "DELETE",
			Path:    "/api/clusters/{cluster_name}/datastores/{storage_name}/content/{volid}",
			Summary: "Delete a file from a storage pool (ISO, template, backup, etc). Irreversible: confirm with the user before proceeding.",
			Params: []Param{
				{Name: "cluster_name", In: InPath, Type: TypeString, Required: true, Description: "Name of the cluster."},
				{Name: "storage_name", In: InPath, Type: TypeString, Required: true, Description: "Name of the storage pool."},
				{Name: "volid", In: InPath, Type: TypeString, Required: true, Description: "Volume ID to delete."},
			},
		},
		{
			Name:    "download_iso",
			Method:  "POST",
			Path:    "/api/clusters/{cluster_name}/datastores/{storage_name}/download-url",
			Summary: "Download an ISO or container template from a URL into a storage pool.",
			Params: []Param{
				{Name: "cluster_name", In: InPath, Type: TypeString, Required: true, Description: "Name of the cluster."},
				{Name: "storage_name", In: InPath, Type: TypeString, Required: true, Description: "Storage pool to download into (e.g. 'local')."},
				{Name: "url", In: InBody, Type: TypeString, Required: true, Description: "Direct download URL for the ISO or template."},
				{Name: "filename", In: InBody, Type: TypeString, Required: true, Description: "Filename to save as (e.g. 'ubuntu-24.04.iso')."},
			},
		},
		{
			Name:    "list_storage_clusters",
			Method:  "GET",
			Path:    "/api/clusters/{cluster_name}/storage-clusters",
			Summary: "List storage clusters (Ceph, ZFS, etc) and their status.",
			Params: []Param{
				{Name: "cluster_name", In: InPath, Type: TypeString, Required: true, Description: "Name of the Proxmox cluster."},
			},
		},
		{
			Name:    "get_storage_cluster_status",
			Method:  "GET",
			Path:    "/api/clusters/{cluster_name}/storage-clusters/{storage_cluster_id}/status",
			Summary: "Get detailed status and health of a storage cluster (e.g. Ceph health, OSD status).",
			Params: []Param{
				{Name: "cluster_name", In: InPath, Type: TypeString, Required: true, Description: "Name of the Proxmox cluster."},
				{Name: "storage_cluster_id", In: InPath, Type: TypeString, Required: true, Description: "ID of the storage cluster."},
			},
		},

		// --- Provisioning ---
		{
			Name:    "create_vm",
			Method:  "POST",
			Path:    "/api/clusters/{cluster_name}/nodes/{node_name}/qemu",
			Summary: "Create a new QEMU virtual machine.",
			Params: []Param{
				{Name: "cluster_name", In: InPath, Type: TypeString, Required: true, Description: "Name of the cluster."},
				{Name: "node_name", In: InPath, Type: TypeString, Required: true, Description: "Node to create the VM on."},
				{Name: "vmid", In: InBody, Type: TypeNumber, Required: true, Description: "VM ID (must be unique in the cluster)."},
				{Name: "name", In: InBody, Type: TypeString, Required: true, Description: "VM name."},
				{Name: "memory_mb", In: InBody, Type: TypeNumber, Description: "RAM in megabytes (default: 2048)."},
				{Name: "cores", In: InBody, Type: TypeNumber, Description: "CPU cores per socket (default: 2)."},
				{Name: "sockets", In: InBody, Type: TypeNumber, Description: "CPU sockets (default: 1)."},
				{Name: "disk_size_gb", In: InBody, Type: TypeNumber, Description: "Primary disk size in GB (default: 32)."},
				{Name: "storage", In: InBody, Type: TypeString, Description: "Storage pool for the disk (default: 'local-lvm')."},
				{Name: "iso", In: InBody, Type: TypeString, Description: "Optional ISO path to mount as CDROM (e.g. 'local:iso/ubuntu-24.04.iso')."},
				{Name: "os_type", In: InBody, Type: TypeString, Description: "OS type hint, e.g. 'l26' for Linux, 'win11' for Windows (default: 'l26')."},
				{Name: "net_bridge", In: InBody, Type: TypeString, Description: "Network bridge to attach to (default: 'vmbr0')."},
				{Name: "start_on_create", In: InBody, Type: TypeBoolean, Description: "Whether to start the VM immediately after creation."},
			},
			BuildBody: buildVMBody,
		},
		{
			Name:    "create_container",
			Method:  "POST",
			Path:    "/api/clusters/{cluster_name}/nodes/{node_name}/lxc",
			Summary: "Create a new LXC container.",
			Params: []Param{
				{Name: "cluster_name", In: InPath, Type: TypeString, Required: true, Description: "Name of the cluster."},
				{Name: "node_name", In: InPath, Type: TypeString, Required: true, Description: "Node to create the container on."},
				{Name: "vmid", In: InBody, Type: TypeNumber, Required: true, Description: "Container ID (must be unique in the cluster)."},
				{Name: "name", In: InBody, Type: TypeString, Required: true, Description: "Container hostname."},
				{Name: "template", In: InBody, Type: TypeString, Required: true, Description: "Container template (e.g. 'local:vztmpl/ubuntu-24.04-standard_24.04-2_amd64.tar.zst')."},
				{Name: "memory_mb", In: InBody, Type: TypeNumber, Description: "RAM in megabytes (default: 512)."},
				{Name: "swap_mb", In: InBody, Type: TypeNumber, Description: "Swap in megabytes (default: 512)."},
				{Name: "cores", In: InBody, Type: TypeNumber, Description: "CPU cores (default: 1)."},
				{Name: "disk_size_gb", In: InBody, Type: TypeNumber, Description: "Root disk size in GB (default: 8)."},
				{Name: "storage", In: InBody, Type: TypeString, Description: "Storage pool for the disk (default: 'local-lvm')."},
				{Name: "net_bridge", In: InBody, Type: TypeString, Description: "Network bridge to attach to (default: 'vmbr0')."},
				{Name: "ip_config", In: InBody, Type: TypeString, Description: "'dhcp' (default) or 'ip=192.168.1.100/24,gw=192.168.1.1'."},
				{Name: "password", In: InBody, Type: TypeString, Description: "Root password for the container."},
				{Name: "ssh_public_key", In: InBody, Type: TypeString, Description: "Optional SSH public key to inject."},
				{Name: "start_on_create", In: InBody, Type: TypeBoolean, Description: "Whether to start the container after creation."},
				{Name: "unprivileged", In: InBody, Type: TypeBoolean, Description: "Run as unprivileged container (default: true, recommended)."},
			},
			BuildBody: buildContainerBody,
		},
		{
			Name:    "list_available_templates",
			Method:  "GET",
			Path:    "/api/clusters/{cluster_name}/templates/available",
			Summary: "List VM and container templates available for deployment.",
			Params: []Param{
				{Name: "cluster_name", In: InPath, Type: TypeString, Required: true, Description: "Name of the cluster."},
			},
		},
		{
			Name:    "list_isos",
			Method:  "GET",
			Path:    "/api/clusters/{cluster_name}/nodes/{node_name}/isos",
			Summary: "List ISO images available on a node for VM installation.",
			Params: []Param{
				{Name: "cluster_name", In: InPath, Type: TypeString, Required: true, Description: "Name of the cluster."},
				{Name: "node_name", In: InPath, Type: TypeString, Required: true, Description: "Name of the node."},
			},
		},
		{
			Name:    "list_node_templates",
			Method:  "GET",
			Path:    "/api/clusters/{cluster_name}/nodes/{node_name}/templates",
			Summary: "List container templates available on a node.",
			Params: []Param{
				{Name: "cluster_name", In: InPath, Type: TypeString, Required: true, Description: "Name of the cluster."},
				{Name: "node_name", In: InPath, Type: TypeString, Required: true, Description: "Name of the node."},
			},
		},
	}
}

// buildVMBody assembles the QEMU creation payload, deriving the Proxmox
// device strings (scsi0, net0, boot order) from the flat tool arguments.
func buildVMBody(args map[string]interface{}) map[string]interface{} {
	storage := strArg(args, "storage", "local-lvm")
	payload := map[string]interface{}{
		"vmid":    intArg(args, "vmid", 0),
		"name":    strArg(args, "name", ""),
		"memory":  intArg(args, "memory_mb", 2048),
		"cores":   intArg(args, "cores", 2),
		"sockets": intArg(args, "sockets", 1),
		"ostype":  strArg(args, "os_type", "l26"),
		"scsi0":   fmt.Sprintf("%s:%d", storage, intArg(args, "disk_size_gb", 32)),
		"scsihw":  "virtio-scsi-pci",
		"net0":    fmt.Sprintf("virtio,bridge=%s", strArg(args, "net_bridge", "vmbr0")),
		"boot":    "order=scsi0;ide2;net0",
	}
	if iso := strArg(args, "iso", ""); iso != "" {
		payload["ide2"] = iso + ",media=cdrom"
	}
	if boolArg(args, "start_on_create", false) {
		payload["start"] = 1
	}
	return payload
}

// buildContainerBody assembles the LXC creation payload.
func buildContainerBody(args map[string]interface{}) map[string]interface{} {
	storage := strArg(args, "storage", "local-lvm")
	unprivileged := 0
	if boolArg(args, "unprivileged", true) {
		unprivileged = 1
	}
	payload := map[string]interface{}{
		"vmid":       intArg(args, "vmid", 0),
		"hostname":   strArg(args, "name", ""),
		"ostemplate": strArg(args, "template", ""),
		"memory":     intArg(args, "memory_mb", 512),
		"swap":       intArg(args, "swap_mb", 512),
		"cores":      intArg(args, "cores", 1),
		"rootfs":     fmt.Sprintf("%s:%d", storage, intArg(args, "disk_size_gb", 8)),
		"net0": fmt.Sprintf("name=eth0,bridge=%s,ip=%s",
			strArg(args, "net_bridge", "vmbr0"), strArg(args, "ip_config", "dhcp")),
		"unprivileged": unprivileged,
	}
	if password := strArg(args, "password", ""); password != "" {
		payload["password"] = password
	}
	if key := strArg(args, "ssh_public_key", ""); key != "" {
		payload["ssh-public-keys"] = key
	}
	if boolArg(args, "start_on_create", false) {
		payload["start"] = 1
	}
	return payload
}

// strArg reads a validated string argument with a default.
func strArg(args map[string]interface{}, name, def string) string {
	if v, ok := args[name].(string); ok && v != "" {
		return v
	}
	return def
}

// intArg reads a validated numeric argument with a default. JSON numbers
// arrive as float64.
func intArg(args map[string]interface{}, name string, def int) int {
	switch v := args[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return def
}

// boolArg reads a validated boolean argument with a default.
func boolArg(args map[string]interface{}, name string, def bool) bool {
	if v, ok := args[name].(bool); ok {
		return v
	}
	return def
}
