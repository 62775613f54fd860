package gen

import (
	"fmt"
	"go/format"
	"strings"

	"github.com/keithlinneman/embeddir/internal/xerrors"
)

type EmitOptions struct {
	// PackageName for the generated file, e.g. "assets".
	PackageName string

	// VarName is the exported root table variable, e.g. "Assets".
	VarName string
}

func (o *EmitOptions) setDefaults() {
	if o.PackageName == "" {
		o.PackageName = "assets"
	}
	if o.VarName == "" {
		o.VarName = "Assets"
	}
}

// Emit renders the tree as a gofmt-clean Go source file declaring the static
// tables. The same output compiles under both build modes: default builds use
// the baked bytes, embeddev builds use the emitted root constant to read from
// disk instead.
func Emit(t *Tree, opts EmitOptions) ([]byte, error) {
	opts.setDefaults()

	needsTime := false
	t.Dir.visit(func(fn FileNode) {
		if !fn.Modified.IsZero() {
			needsTime = true
		}
	})

	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by embedgen. DO NOT EDIT.\n")
	fmt.Fprintf(&b, "//\n// Source: %s\n\n", t.Root)
	fmt.Fprintf(&b, "package %s\n\n", opts.PackageName)

	if needsTime {
		b.WriteString("import (\n\t\"time\"\n\n\t\"github.com/keithlinneman/embeddir\"\n)\n\n")
	} else {
		b.WriteString("import \"github.com/keithlinneman/embeddir\"\n\n")
	}

	fmt.Fprintf(&b, "// BundleID identifies the generation run that produced these tables.\nconst BundleID = %q\n\n", t.BundleID)
	fmt.Fprintf(&b, "// embedRoot is the directory the tables were generated from; only embeddev\n// builds consult it.\nconst embedRoot = %q\n\n", t.Root)

	fmt.Fprintf(&b, "var %s = ", opts.VarName)
	writeDir(&b, t.Dir, 0)
	b.WriteString("\n")

	src, err := format.Source([]byte(b.String()))
	if err != nil {
		return nil, xerrors.Wrap(err, "format generated source")
	}
	return src, nil
}

func writeDir(b *strings.Builder, n DirNode, depth int) {
	ind := strings.Repeat("\t", depth)
	fmt.Fprintf(b, "embeddir.NewDir(%q, ", n.Path)

	if len(n.Dirs) == 0 {
		b.WriteString("nil, ")
	} else {
		b.WriteString("[]embeddir.Dir{\n")
		for _, sub := range n.Dirs {
			b.WriteString(ind + "\t")
			writeDir(b, sub, depth+1)
			b.WriteString(",\n")
		}
		b.WriteString(ind + "}, ")
	}

	if len(n.Files) == 0 {
		b.WriteString("nil)")
	} else {
		b.WriteString("[]embeddir.File{\n")
		for _, fn := range n.Files {
			b.WriteString(ind + "\t")
			writeFile(b, fn)
			b.WriteString(",\n")
		}
		b.WriteString(ind + "})")
	}
}

func writeFile(b *strings.Builder, fn FileNode) {
	if len(fn.Contents) == 0 {
		fmt.Fprintf(b, "embeddir.New(%q, nil, embedRoot)", fn.Path)
	} else {
		fmt.Fprintf(b, "embeddir.New(%q, []byte(%q), embedRoot)", fn.Path, fn.Contents)
	}
	if !fn.Modified.IsZero() {
		fmt.Fprintf(b, ".WithMetadata(embeddir.Metadata{Modified: time.Unix(%d, %d)})",
			fn.Modified.Unix(), fn.Modified.Nanosecond())
	}
}

func (n DirNode) visit(fn func(FileNode)) {
	for _, f := range n.Files {
		fn(f)
	}
	for _, sub := range n.Dirs {
		sub.visit(fn)
	}
}
