package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDiff = `diff --git a/pkg/mod.py b/pkg/mod.py
index 1111111..2222222 100644
--- a/pkg/mod.py
+++ b/pkg/mod.py
@@ -3,0 +4,2 @@ def f(a):
+    b = 1
+    return b
@@ -10 +12 @@ class A:
-    x = 1
+    x = 2
@@ -20,3 +21,0 @@ def g():
-    pass
-    pass
-    pass
diff --git a/old.py b/old.py
deleted file mode 100644
index 3333333..0000000
--- a/old.py
+++ /dev/null
@@ -1,2 +0,0 @@
-x = 1
-y = 2
diff --git a/new.py b/new.py
new file mode 100644
index 0000000..4444444
--- /dev/null
+++ b/new.py
@@ -0,0 +1,3 @@
+def h():
+    pass
+
`

func TestParseDiff(t *testing.T) {
	files, err := parseDiff([]byte(sampleDiff))
	require.NoError(t, err)
	require.Len(t, files, 2)

	t.Run("Modified file", func(t *testing.T) {
		assert.Equal(t, "pkg/mod.py", files[0].Path)
		assert.Equal(t, []int{4, 5, 12, 21}, files[0].ChangedLines)
	})

	t.Run("Deleted files are dropped", func(t *testing.T) {
		for _, f := range files {
			assert.NotEqual(t, "old.py", f.Path)
		}
	})

	t.Run("New file", func(t *testing.T) {
		assert.Equal(t, "new.py", files[1].Path)
		assert.Equal(t, []int{1, 2, 3}, files[1].ChangedLines)
	})
}
