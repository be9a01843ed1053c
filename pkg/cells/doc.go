// Package cells maps column semantic types onto render functions. A Registry
// resolves one model.RenderFunc per column (plain, date, datetime, time,
// iconType, icon, dict, and server-defined types) and binds them onto column
// descriptors. Render functions never fail: values they cannot interpret
// degrade to the "-" placeholder.
package cells
