// Package topology loads network topology documents and resolves the
// host record a run is rendering for.
//
// A topology document is YAML with four top level sections:
//
//	global:
//	  vlan: 100
//	hosts:
//	  web1:
//	    device: eth0
//	    addresses:
//	      eth0.101: 10.0.1.5
//	tables:
//	  public:
//	    primary ifname: eth0.101
//	    subnet: 10.0.1.0/24
//	    default gateway: 10.0.1.1
//	templates:
//	  route:
//	    filename: route-{{ .device }}
//	    content: |
//	      {{ range .tables }}default via {{ .gateway }} table {{ .table }}
//	      {{ end }}
//
// Any scalar tagged !include is replaced by the parsed content of the named
// file, resolved relative to the including file:
//
//	hosts: !include hosts.yml
package topology
