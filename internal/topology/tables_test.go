package topology

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestTableContexts_SortedByName(t *testing.T) {
	doc := &Document{Tables: map[string]Table{
		"zeta":  {PrimaryIfname: "eth0.3", Subnet: "10.0.3.0/24", DefaultGateway: "10.0.3.1"},
		"alpha": {PrimaryIfname: "eth0.1", Subnet: "10.0.1.0/24", DefaultGateway: "10.0.1.1"},
		"mid":   {PrimaryIfname: "eth0.2", Subnet: "10.0.2.0/24", DefaultGateway: "10.0.2.1"},
	}}

	want := []TableContext{
		{Table: "alpha", Device: "eth0", Ifname: "eth0.1", Subnet: "10.0.1.0/24", Gateway: "10.0.1.1"},
		{Table: "mid", Device: "eth0", Ifname: "eth0.2", Subnet: "10.0.2.0/24", Gateway: "10.0.2.1"},
		{Table: "zeta", Device: "eth0", Ifname: "eth0.3", Subnet: "10.0.3.0/24", Gateway: "10.0.3.1"},
	}

	// Map iteration order varies between runs; repeat to exercise it.
	for i := 0; i < 10; i++ {
		if diff := cmp.Diff(want, doc.TableContexts("eth0")); diff != "" {
			t.Fatalf("TableContexts() mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestTableContexts_NumberedTables(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want []string
	}{
		{
			name: "numeric order",
			yaml: "tables:\n  100: {primary ifname: eth0.100}\n  20: {primary ifname: eth0.20}\n  3: {primary ifname: eth0.3}\n",
			want: []string{"3", "20", "100"},
		},
		{
			name: "numbers before names",
			yaml: "tables:\n  public: {primary ifname: eth0.1}\n  200: {primary ifname: eth0.200}\n  backend: {primary ifname: eth0.2}\n  10: {primary ifname: eth0.10}\n",
			want: []string{"10", "200", "backend", "public"},
		},
		{
			name: "quoted numbers are names",
			yaml: "tables:\n  \"100\": {primary ifname: eth0.100}\n  \"20\": {primary ifname: eth0.20}\n",
			want: []string{"100", "20"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc Document
			require.NoError(t, yaml.Unmarshal([]byte(tt.yaml), &doc))

			var got []string
			for _, c := range doc.TableContexts("eth0") {
				got = append(got, c.Table)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, doc.TableNames())
		})
	}
}

func TestTables_UnmarshalRejectsSequence(t *testing.T) {
	var doc Document
	err := yaml.Unmarshal([]byte("tables:\n  - public\n"), &doc)
	assert.ErrorContains(t, err, "tables must be a mapping")
}

func TestTableContext_Vars(t *testing.T) {
	c := TableContext{Table: "public", Device: "eth0", Ifname: "eth0.101", Subnet: "10.0.1.0/24", Gateway: "10.0.1.1"}
	want := map[string]any{
		"table":   "public",
		"device":  "eth0",
		"ifname":  "eth0.101",
		"subnet":  "10.0.1.0/24",
		"gateway": "10.0.1.1",
	}
	if diff := cmp.Diff(want, c.Vars()); diff != "" {
		t.Errorf("Vars() mismatch (-want +got):\n%s", diff)
	}
}

func TestInterfaceContexts(t *testing.T) {
	t.Run("sorted interface names", func(t *testing.T) {
		contexts := []TableContext{
			{Table: "a", Ifname: "eth0.200"},
			{Table: "b", Ifname: "eth0.100"},
		}

		byIfname, names, err := InterfaceContexts(contexts)
		require.NoError(t, err)
		assert.Equal(t, []string{"eth0.100", "eth0.200"}, names)
		assert.Equal(t, "b", byIfname["eth0.100"].Table)
	})

	t.Run("duplicate interface", func(t *testing.T) {
		contexts := []TableContext{
			{Table: "a", Ifname: "eth0.100"},
			{Table: "b", Ifname: "eth0.100"},
		}

		_, _, err := InterfaceContexts(contexts)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDuplicateInterface)
		assert.Contains(t, err.Error(), "tables a and b both use eth0.100")
	})
}

func TestParseSubnet(t *testing.T) {
	tests := []struct {
		cidr    string
		want    Subnet
		wantErr string
	}{
		{cidr: "10.0.0.0/24", want: Subnet{NetworkAddress: "10.0.0.0", Netmask: "255.255.255.0", Bits: 24}},
		{cidr: "192.168.4.0/22", want: Subnet{NetworkAddress: "192.168.4.0", Netmask: "255.255.252.0", Bits: 22}},
		{cidr: "10.1.2.3/32", want: Subnet{NetworkAddress: "10.1.2.3", Netmask: "255.255.255.255", Bits: 32}},
		{cidr: "0.0.0.0/0", want: Subnet{NetworkAddress: "0.0.0.0", Netmask: "0.0.0.0", Bits: 0}},
		{cidr: "10.0.0.5/24", wantErr: "host bits set"},
		{cidr: "fd00::/64", wantErr: "not IPv4"},
		{cidr: "10.0.0.0", wantErr: "parse subnet"},
	}

	for _, tt := range tests {
		t.Run(tt.cidr, func(t *testing.T) {
			got, err := ParseSubnet(tt.cidr)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
