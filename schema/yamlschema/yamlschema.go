// Package yamlschema loads schema modules from YAML into a compiled
// schema.Registry.
//
// A document lists modules, each with top-level nodes, augments and
// identities:
//
//	modules:
//	  - name: food
//	    namespace: ydt.food
//	    prefix: f
//	    identities:
//	      - name: flavor
//	      - name: sweet
//	        base: [flavor]
//	    nodes:
//	      - container: food
//	        children:
//	          - leaf: chocolate
//	            type: string
//	          - list: snack
//	            key: [name]
//	            max-elements: 10
//	            children:
//	              - leaf: name
//	                type: string
//	  - name: food-aug
//	    namespace: ydt.food-aug
//	    augments:
//	      - target: /f:food
//	        nodes:
//	          - leaf: spice
//	            type: enumeration
//	            enum: [mild, hot]
//	apps:
//	  /food:food/food-aug:spice: spice-handler
//
// Multi-document streams are merged into one registry. Unknown fields are
// rejected.
package yamlschema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/reoring/datatree/schema"
)

type document struct {
	Modules []module          `yaml:"modules"`
	Apps    map[string]string `yaml:"apps"`
}

type module struct {
	Name       string     `yaml:"name"`
	Namespace  string     `yaml:"namespace"`
	Prefix     string     `yaml:"prefix"`
	Identities []identity `yaml:"identities"`
	Nodes      []node     `yaml:"nodes"`
	Augments   []augment  `yaml:"augments"`
}

type identity struct {
	Name string   `yaml:"name"`
	Base []string `yaml:"base"`
}

type augment struct {
	Target string `yaml:"target"`
	Nodes  []node `yaml:"nodes"`
}

type node struct {
	Container      string   `yaml:"container"`
	List           string   `yaml:"list"`
	Leaf           string   `yaml:"leaf"`
	LeafList       string   `yaml:"leaf-list"`
	Key            []string `yaml:"key"`
	MaxElements    uint64   `yaml:"max-elements"`
	Type           string   `yaml:"type"`
	Range          string   `yaml:"range"`
	Length         string   `yaml:"length"`
	FractionDigits int      `yaml:"fraction-digits"`
	Enum           []string `yaml:"enum"`
	Bits           []string `yaml:"bits"`
	Base           string   `yaml:"base"`
	Children       []node   `yaml:"children"`
}

// LoadFile reads and compiles the schema file at path.
func LoadFile(path string) (*schema.Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	reg, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// Parse compiles an in-memory schema document.
func Parse(data []byte) (*schema.Registry, error) { return Load(bytes.NewReader(data)) }

// Load reads every YAML document from r and returns the compiled registry.
func Load(r io.Reader) (*schema.Registry, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	reg := schema.NewRegistry()
	for {
		var doc document
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("yamlschema: %w", err)
		}
		if err := register(reg, doc); err != nil {
			return nil, err
		}
	}
	if err := reg.Compile(); err != nil {
		return nil, err
	}
	return reg, nil
}

func register(reg *schema.Registry, doc document) error {
	var errs []error
	for _, m := range doc.Modules {
		if m.Name == "" {
			errs = append(errs, errors.New("yamlschema: module without a name"))
			continue
		}
		if m.Prefix != "" {
			reg.SetPrefix(m.Name, m.Prefix)
		}
		for _, id := range m.Identities {
			if err := reg.AddIdentity(m.Name, id.Name, id.Base...); err != nil {
				errs = append(errs, err)
			}
		}
		children, err := descriptors(m.Nodes)
		if err != nil {
			errs = append(errs, fmt.Errorf("yamlschema: module %s: %w", m.Name, err))
		} else if err := reg.AddModule(schema.NewModule(m.Name, m.Namespace, children...)); err != nil {
			errs = append(errs, err)
		}
		for _, a := range m.Augments {
			nodes, err := descriptors(a.Nodes)
			if err != nil {
				errs = append(errs, fmt.Errorf("yamlschema: module %s: augment %s: %w", m.Name, a.Target, err))
				continue
			}
			if err := reg.Augment(m.Name, m.Namespace, a.Target, nodes...); err != nil {
				errs = append(errs, err)
			}
		}
	}
	for path, app := range doc.Apps {
		reg.SetApp(path, app)
	}
	return errors.Join(errs...)
}

func descriptors(nodes []node) ([]*schema.Descriptor, error) {
	out := make([]*schema.Descriptor, 0, len(nodes))
	var errs []error
	for _, n := range nodes {
		d, err := n.descriptor()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, d)
	}
	return out, errors.Join(errs...)
}

func (n node) descriptor() (*schema.Descriptor, error) {
	set := 0
	for _, s := range []string{n.Container, n.List, n.Leaf, n.LeafList} {
		if s != "" {
			set++
		}
	}
	if set != 1 {
		return nil, errors.New("node must declare exactly one of container, list, leaf or leaf-list")
	}
	children, err := descriptors(n.Children)
	if err != nil {
		return nil, err
	}
	switch {
	case n.Container != "":
		return schema.NewContainer(n.Container, children...), nil
	case n.List != "":
		return schema.NewList(n.List, n.Key, n.MaxElements, children...), nil
	case n.Leaf != "":
		t, err := n.typ()
		if err != nil {
			return nil, fmt.Errorf("leaf %s: %w", n.Leaf, err)
		}
		return schema.NewLeaf(n.Leaf, t), nil
	}
	t, err := n.typ()
	if err != nil {
		return nil, fmt.Errorf("leaf-list %s: %w", n.LeafList, err)
	}
	return schema.NewLeafList(n.LeafList, t, n.MaxElements), nil
}

func (n node) typ() (*schema.Type, error) {
	base, err := schema.ParseBuiltinType(n.Type)
	if err != nil {
		return nil, err
	}
	switch base {
	case schema.TypeBoolean:
		return schema.Boolean(), nil
	case schema.TypeEmpty:
		return schema.Empty(), nil
	case schema.TypeString:
		if n.Length == "" {
			return schema.String(), nil
		}
		return schema.String(n.Length), nil
	case schema.TypeEnumeration:
		return schema.Enumeration(n.Enum...), nil
	case schema.TypeBits:
		return schema.Bits(n.Bits...), nil
	case schema.TypeDecimal64:
		return schema.Decimal64(n.FractionDigits, n.Range), nil
	case schema.TypeIdentityRef:
		return schema.IdentityRef(n.Base), nil
	}
	return schema.Integer(base, n.Range), nil
}
