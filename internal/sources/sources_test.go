package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		input  string
		want   string
		linked bool
	}{
		{name: "content root", input: "docs/Part-1-introduction/overview.md", want: "/docs/Part-1-introduction/overview", linked: true},
		{name: "sentinel", input: "user-selected", linked: false},
		{name: "empty", input: "", linked: false},
		{name: "bare relative", input: "Part-3-ros2/nodes.md", want: "/docs/Part-3-ros2/nodes", linked: true},
		{name: "already routed", input: "/docs/Part-2-humanoid-robotics/urdf", want: "/docs/Part-2-humanoid-robotics/urdf", linked: true},
		{name: "mdx kept", input: "docs/intro.mdx", want: "/docs/intro.mdx", linked: true},
		{name: "odd id passes through", input: "weird id", want: "/docs/weird id", linked: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Resolve(tc.input)
			assert.Equal(t, tc.linked, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestContentIDRoundTripsThroughResolve(t *testing.T) {
	t.Parallel()

	id := ContentID("Part-2-humanoid-robotics/ros2-basics.md")
	assert.Equal(t, "docs/Part-2-humanoid-robotics/ros2-basics.md", id)
	route, ok := Resolve(id)
	assert.True(t, ok)
	assert.Equal(t, "/docs/Part-2-humanoid-robotics/ros2-basics", route)
}
