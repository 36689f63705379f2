// Package toast provides feedback notifications for components.
//
// A toast is ordinary component state: Show writes a Notice under
// StateKey, which requests a render through the usual coalescing path,
// and the component's render function places Region wherever the notice
// should appear. There is no separate channel or queue; the latest notice
// replaces the previous one.
//
// In an event handler:
//
//	element.On("button.save", "click", func(e *element.Event) error {
//	    if err := save(e.State()); err != nil {
//	        toast.Error(e.State(), "Failed to save")
//	        return nil
//	    }
//	    toast.Success(e.State(), "Saved")
//	    return nil
//	})
//
// In the render function:
//
//	return vdom.Div(
//	    vdom.Button(vdom.Class("save"), "Save"),
//	    toast.Region(s),
//	), nil
//
// With title:
//
//	toast.WithTitle(e.State(), toast.TypeSuccess, "Settings", "Your changes have been saved.")
package toast
