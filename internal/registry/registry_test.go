package registry

import (
	"strings"
	"testing"
)

func TestCatalogIsValid(t *testing.T) {
	r, err := New(Catalog())
	if err != nil {
		t.Fatalf("catalog failed validation: %v", err)
	}
	if r.Len() == 0 {
		t.Fatal("catalog is empty")
	}
	if got, want := len(r.Tools()), r.Len(); got != want {
		t.Fatalf("Tools() returned %d entries, want %d", got, want)
	}
}

func TestCatalogPreservesOrder(t *testing.T) {
	table := Catalog()
	r := MustNew(table)
	for i, tool := range r.Tools() {
		if tool.Name != table[i].Name {
			t.Fatalf("tool %d: got %q, want %q", i, tool.Name, table[i].Name)
		}
	}
}

func TestResolve(t *testing.T) {
	r := MustNew(Catalog())

	tool, ok := r.Resolve("vm_action")
	if !ok {
		t.Fatal("vm_action not found")
	}
	if tool.Method != "POST" {
		t.Errorf("vm_action method = %q, want POST", tool.Method)
	}
	if !strings.Contains(tool.Path, "{vmid}") {
		t.Errorf("vm_action path %q missing {vmid} placeholder", tool.Path)
	}

	if _, ok := r.Resolve("summon_dragon"); ok {
		t.Fatal("resolved a tool that does not exist")
	}
}

func TestNewRejectsMalformedTools(t *testing.T) {
	valid := Tool{
		Name:    "get_widget",
		Method:  "GET",
		Path:    "/api/widgets/{widget_id}",
		Summary: "Get a widget.",
		Params: []Param{
			{Name: "widget_id", In: InPath, Type: TypeString, Required: true},
		},
	}

	cases := []struct {
		name   string
		mutate func(t *Tool)
	}{
		{"empty name", func(t *Tool) { t.Name = "" }},
		{"empty summary", func(t *Tool) { t.Summary = "" }},
		{"bad method", func(t *Tool) { t.Method = "PATCH" }},
		{"path outside /api/", func(t *Tool) { t.Path = "/widgets/{widget_id}" }},
		{"path traversal", func(t *Tool) { t.Path = "/api/../admin/{widget_id}" }},
		{"placeholder without param", func(t *Tool) { t.Params = nil }},
		{"optional path param", func(t *Tool) { t.Params[0].Required = false }},
		{"path param not in path", func(t *Tool) {
			t.Params = append(t.Params, Param{Name: "other", In: InPath, Type: TypeString, Required: true})
		}},
		{"duplicate param", func(t *Tool) {
			t.Params = append(t.Params, Param{Name: "widget_id", In: InQuery, Type: TypeString})
		}},
		{"bad location", func(t *Tool) {
			t.Params = append(t.Params, Param{Name: "x", In: "header", Type: TypeString})
		}},
		{"bad type", func(t *Tool) {
			t.Params = append(t.Params, Param{Name: "x", In: InQuery, Type: "integer"})
		}},
		{"enum on non-string", func(t *Tool) {
			t.Params = append(t.Params, Param{Name: "n", In: InQuery, Type: TypeNumber, Enum: []string{"1"}})
		}},
		{"default on required param", func(t *Tool) {
			t.Params = append(t.Params, Param{Name: "x", In: InBody, Type: TypeString, Required: true, Default: "y"})
		}},
		{"default outside enum", func(t *Tool) {
			t.Params = append(t.Params, Param{Name: "x", In: InBody, Type: TypeString, Enum: []string{"a", "b"}, Default: "c"})
		}},
		{"default type mismatch", func(t *Tool) {
			t.Params = append(t.Params, Param{Name: "x", In: InBody, Type: TypeBoolean, Default: "true"})
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tool := valid
			tool.Params = append([]Param(nil), valid.Params...)
			tc.mutate(&tool)
			if _, err := New([]Tool{tool}); err == nil {
				t.Fatalf("expected validation error for %s", tc.name)
			}
		})
	}
}

func TestNewRejectsDuplicateNames(t *testing.T) {
	tool := Tool{Name: "list_things", Method: "GET", Path: "/api/things", Summary: "List things."}
	if _, err := New([]Tool{tool, tool}); err == nil {
		t.Fatal("expected error for duplicate tool names")
	}
}

func TestWireKey(t *testing.T) {
	p := Param{Name: "snapshot_name", Key: "snapname"}
	if got := p.WireKey(); got != "snapname" {
		t.Errorf("WireKey() = %q, want snapname", got)
	}
	p = Param{Name: "vmid"}
	if got := p.WireKey(); got != "vmid" {
		t.Errorf("WireKey() = %q, want vmid", got)
	}
}

func TestBuildVMBodyDefaults(t *testing.T) {
	body := buildVMBody(map[string]interface{}{
		"vmid": float64(150),
		"name": "web-01",
	})

	if body["memory"] != 2048 {
		t.Errorf("memory = %v, want 2048", body["memory"])
	}
	if body["cores"] != 2 || body["sockets"] != 1 {
		t.Errorf("cpu = %v cores / %v sockets, want 2/1", body["cores"], body["sockets"])
	}
	if body["scsi0"] != "local-lvm:32" {
		t.Errorf("scsi0 = %v, want local-lvm:32", body["scsi0"])
	}
	if body["net0"] != "virtio,bridge=vmbr0" {
		t.Errorf("net0 = %v", body["net0"])
	}
	if _, ok := body["ide2"]; ok {
		t.Error("ide2 set without iso argument")
	}
	if _, ok := body["start"]; ok {
		t.Error("start set without start_on_create")
	}
}

func TestBuildVMBodyWithISOAndStart(t *testing.T) {
	body := buildVMBody(map[string]interface{}{
		"vmid":            float64(151),
		"name":            "db-01",
		"iso":             "local:iso/ubuntu-24.04.iso",
		"storage":         "fast-nvme",
		"disk_size_gb":    float64(64),
		"start_on_create": true,
	})

	if body["ide2"] != "local:iso/ubuntu-24.04.iso,media=cdrom" {
		t.Errorf("ide2 = %v", body["ide2"])
	}
	if body["scsi0"] != "fast-nvme:64" {
		t.Errorf("scsi0 = %v, want fast-nvme:64", body["scsi0"])
	}
	if body["start"] != 1 {
		t.Errorf("start = %v, want 1", body["start"])
	}
}

func TestBuildContainerBody(t *testing.T) {
	body := buildContainerBody(map[string]interface{}{
		"vmid":     float64(200),
		"name":     "ct-proxy",
		"template": "local:vztmpl/ubuntu-24.04.tar.zst",
	})

	if body["hostname"] != "ct-proxy" {
		t.Errorf("hostname = %v", body["hostname"])
	}
	if body["ostemplate"] != "local:vztmpl/ubuntu-24.04.tar.zst" {
		t.Errorf("ostemplate = %v", body["ostemplate"])
	}
	if body["rootfs"] != "local-lvm:8" {
		t.Errorf("rootfs = %v, want local-lvm:8", body["rootfs"])
	}
	if body["net0"] != "name=eth0,bridge=vmbr0,ip=dhcp" {
		t.Errorf("net0 = %v", body["net0"])
	}
	if body["unprivileged"] != 1 {
		t.Errorf("unprivileged = %v, want 1", body["unprivileged"])
	}
	if _, ok := body["password"]; ok {
		t.Error("password set without argument")
	}

	body = buildContainerBody(map[string]interface{}{
		"vmid":         float64(201),
		"name":         "ct-priv",
		"template":     "local:vztmpl/debian-12.tar.zst",
		"unprivileged": false,
		"password":     "s3cret",
	})
	if body["unprivileged"] != 0 {
		t.Errorf("unprivileged = %v, want 0", body["unprivileged"])
	}
	if body["password"] != "s3cret" {
		t.Errorf("password = %v", body["password"])
	}
}
